package reminder

import (
	"context"
	"sync"
	"time"

	"medtrack/internal/db"
	"medtrack/pkg/logger"
)

// ScheduleStore is the slice of the profile store the nightly pass needs.
type ScheduleStore interface {
	ListDosageSchedules(ctx context.Context) ([]db.DosageSchedule, error)
	SetReminderFlag(ctx context.Context, userID string, show bool) error
}

// Scheduler re-evaluates every user's reminder flag once per day at a fixed
// UTC hour. User updates are independent: one bad record is logged and
// skipped, never aborting the rest of the pass.
type Scheduler struct {
	store     ScheduleStore
	logger    *logger.Logger
	hourUTC   int
	dbTimeout time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(store ScheduleStore, logger *logger.Logger, hourUTC int, dbTimeout time.Duration) *Scheduler {
	if dbTimeout <= 0 {
		dbTimeout = 10 * time.Second
	}
	return &Scheduler{
		store:     store,
		logger:    logger,
		hourUTC:   hourUTC,
		dbTimeout: dbTimeout,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the daily loop. Call Stop to shut it down.
func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)

	for {
		now := time.Now().UTC()
		next := nextRun(now, s.hourUTC)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-s.stop:
			timer.Stop()
			return
		case fired := <-timer.C:
			updated, failed := s.RunPass(context.Background(), fired)
			s.logger.Infow("daily reminder pass complete",
				"updated", updated, "failed", failed)
		}
	}
}

// Stop shuts the loop down and waits for an in-flight pass to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stop) })
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunPass performs one full re-evaluation over all users: matching users are
// shown the reminder, every other user is explicitly hidden. Returns how many
// users were updated and how many individual updates failed.
func (s *Scheduler) RunPass(ctx context.Context, now time.Time) (updated, failed int) {
	listCtx, cancel := context.WithTimeout(ctx, s.dbTimeout)
	schedules, err := s.store.ListDosageSchedules(listCtx)
	cancel()
	if err != nil {
		s.logger.Errorw("failed to list dosage schedules", "error", err)
		return 0, 0
	}

	for _, sched := range schedules {
		show := ShouldRemind(sched.DosageDay, now)

		userCtx, cancel := context.WithTimeout(ctx, s.dbTimeout)
		err := s.store.SetReminderFlag(userCtx, sched.UserID, show)
		cancel()
		if err != nil {
			failed++
			s.logger.Errorw("failed to update reminder flag",
				"user_id", sched.UserID, "error", err)
			continue
		}
		updated++
	}

	return updated, failed
}

// nextRun returns the next occurrence of the scheduled UTC hour after now.
func nextRun(now time.Time, hourUTC int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
