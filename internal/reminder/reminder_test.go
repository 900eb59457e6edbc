package reminder_test

import (
	"testing"
	"time"

	"medtrack/internal/reminder"
)

// utcDay returns a fixed instant falling on the given weekday (Sunday=0).
func utcDay(weekday int) time.Time {
	// 2026-08-30 is a Sunday.
	return time.Date(2026, 8, 30+weekday, 12, 0, 0, 0, time.UTC)
}

func TestDayIndexMapping(t *testing.T) {
	t.Parallel()

	want := map[string]int{
		"Su": 0, "Mo": 1, "Tu": 2, "We": 3, "Th": 4, "Fr": 5, "Sa": 6,
	}
	for code, idx := range want {
		got, ok := reminder.DayIndex(code)
		if !ok || got != idx {
			t.Errorf("DayIndex(%q) = %d,%v; want %d,true", code, got, ok, idx)
		}
	}

	if _, ok := reminder.DayIndex(""); ok {
		t.Error("empty code should not resolve to a weekday")
	}
	if _, ok := reminder.DayIndex("Xx"); ok {
		t.Error("unknown code should not resolve to a weekday")
	}
}

func TestShouldRemindMatchesExactlyOneWeekday(t *testing.T) {
	t.Parallel()

	codes := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	for codeIdx, code := range codes {
		for weekday := 0; weekday < 7; weekday++ {
			got := reminder.ShouldRemind(code, utcDay(weekday))
			want := codeIdx == weekday
			if got != want {
				t.Errorf("ShouldRemind(%q, weekday %d) = %v, want %v", code, weekday, got, want)
			}
		}
	}
}

func TestShouldRemindEmptyAndUnknownCodes(t *testing.T) {
	t.Parallel()

	for weekday := 0; weekday < 7; weekday++ {
		if reminder.ShouldRemind("", utcDay(weekday)) {
			t.Errorf("empty dosage day should never remind (weekday %d)", weekday)
		}
		if reminder.ShouldRemind("??", utcDay(weekday)) {
			t.Errorf("unknown dosage day should never remind (weekday %d)", weekday)
		}
	}
}

func TestShouldRemindUsesUTCWeekday(t *testing.T) {
	t.Parallel()

	// 2026-09-02 23:30 UTC is already Thursday in UTC+5, but still
	// Wednesday in UTC; the Wednesday schedule must still match.
	loc := time.FixedZone("UTC+5", 5*60*60)
	local := time.Date(2026, 9, 2, 23, 30, 0, 0, time.UTC).In(loc)

	if !reminder.ShouldRemind("We", local) {
		t.Fatal("expected Wednesday match evaluated in UTC")
	}
}
