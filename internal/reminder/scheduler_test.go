package reminder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medtrack/internal/db"
	"medtrack/internal/reminder"
	"medtrack/pkg/logger"
)

// fakeScheduleStore is an in-memory ScheduleStore for scheduler tests.
type fakeScheduleStore struct {
	schedules []db.DosageSchedule
	flags     map[string]bool
	failFor   map[string]bool
}

func newFakeScheduleStore(schedules ...db.DosageSchedule) *fakeScheduleStore {
	f := &fakeScheduleStore{
		schedules: schedules,
		flags:     make(map[string]bool),
		failFor:   make(map[string]bool),
	}
	for _, s := range schedules {
		f.flags[s.UserID] = s.ShowMedReminder
	}
	return f
}

func (f *fakeScheduleStore) ListDosageSchedules(ctx context.Context) ([]db.DosageSchedule, error) {
	return f.schedules, nil
}

func (f *fakeScheduleStore) SetReminderFlag(ctx context.Context, userID string, show bool) error {
	if f.failFor[userID] {
		return errors.New("simulated write failure")
	}
	f.flags[userID] = show
	return nil
}

// 2026-09-02 is a Wednesday.
var wednesday = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

func TestRunPassShowsMatchingAndHidesOthers(t *testing.T) {
	store := newFakeScheduleStore(
		db.DosageSchedule{UserID: "wed-user", DosageDay: "We"},
		db.DosageSchedule{UserID: "fri-user", DosageDay: "Fr", ShowMedReminder: true},
		db.DosageSchedule{UserID: "unscheduled", DosageDay: ""},
	)
	s := reminder.NewScheduler(store, logger.NewNop(), 0, time.Second)

	updated, failed := s.RunPass(context.Background(), wednesday)
	require.Equal(t, 3, updated)
	require.Equal(t, 0, failed)

	require.True(t, store.flags["wed-user"], "matching user transitions to shown")
	require.False(t, store.flags["fri-user"], "stale flag is explicitly hidden")
	require.False(t, store.flags["unscheduled"])
}

func TestRunPassIsolatesPerUserFailures(t *testing.T) {
	store := newFakeScheduleStore(
		db.DosageSchedule{UserID: "bad-user", DosageDay: "We"},
		db.DosageSchedule{UserID: "good-user", DosageDay: "We"},
	)
	store.failFor["bad-user"] = true

	s := reminder.NewScheduler(store, logger.NewNop(), 0, time.Second)

	updated, failed := s.RunPass(context.Background(), wednesday)
	require.Equal(t, 1, updated)
	require.Equal(t, 1, failed)
	require.True(t, store.flags["good-user"], "one bad record must not block the rest")
}

func TestRunPassIsIdempotentAcrossDays(t *testing.T) {
	store := newFakeScheduleStore(
		db.DosageSchedule{UserID: "wed-user", DosageDay: "We"},
	)
	s := reminder.NewScheduler(store, logger.NewNop(), 0, time.Second)

	s.RunPass(context.Background(), wednesday)
	require.True(t, store.flags["wed-user"])

	// Next day the same user is hidden again.
	s.RunPass(context.Background(), wednesday.Add(24*time.Hour))
	require.False(t, store.flags["wed-user"])
}

func TestSchedulerStop(t *testing.T) {
	store := newFakeScheduleStore()
	s := reminder.NewScheduler(store, logger.NewNop(), 0, time.Second)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
