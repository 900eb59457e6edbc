package reminder

import (
	"time"
)

// dayIndex maps the two-letter dosage day codes to UTC weekday numbers,
// Su=0 through Sa=6. This is the single source of truth for valid codes.
var dayIndex = map[string]int{
	"Su": 0,
	"Mo": 1,
	"Tu": 2,
	"We": 3,
	"Th": 4,
	"Fr": 5,
	"Sa": 6,
}

// DayIndex returns the weekday number for a dosage day code.
func DayIndex(code string) (int, bool) {
	idx, ok := dayIndex[code]
	return idx, ok
}

// ShouldRemind reports whether the reminder flag should be shown right now
// for a profile with the given dosage day. An empty or unrecognized code
// never reminds.
func ShouldRemind(dosageDay string, now time.Time) bool {
	idx, ok := dayIndex[dosageDay]
	if !ok {
		return false
	}
	return idx == int(now.UTC().Weekday())
}
