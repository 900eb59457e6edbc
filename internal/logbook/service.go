package logbook

import (
	"context"
	"time"

	"medtrack/internal/apperr"
	"medtrack/internal/intake"
	"medtrack/internal/models"
	"medtrack/pkg/logger"
)

// Store is the log-entry persistence surface.
type Store interface {
	CreateLogEntry(ctx context.Context, entry *models.LogEntry) error
	ListLogEntries(ctx context.Context, userID string, limit int) ([]models.LogEntry, error)
	DeleteLogEntry(ctx context.Context, userID, entryID string) (*models.LogEntry, error)
}

// ProteinCounter is the slice of the intake counters log entries feed.
type ProteinCounter interface {
	AddProtein(ctx context.Context, userID, day string, delta float64) (float64, error)
}

// Service creates and deletes log entries, keeping the per-day protein
// counters in step with them.
type Service struct {
	store    Store
	counters ProteinCounter
	logger   *logger.Logger
}

func NewService(store Store, counters ProteinCounter, logger *logger.Logger) *Service {
	return &Service{store: store, counters: counters, logger: logger}
}

// Create stores a new entry and adds its protein to the entry day's counter.
func (s *Service) Create(ctx context.Context, entry *models.LogEntry) error {
	if entry.UserID == "" {
		return apperr.New(apperr.KindUnauthenticated, "missing user identity")
	}
	if entry.FoodNoise < 1 || entry.FoodNoise > 5 {
		return apperr.New(apperr.KindInvalidArgument, "food noise must be between 1 and 5")
	}
	if entry.ProteinG < 0 {
		return apperr.New(apperr.KindInvalidArgument, "protein intake cannot be negative")
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}

	if err := s.store.CreateLogEntry(ctx, entry); err != nil {
		return err
	}

	if entry.ProteinG > 0 {
		day := intake.Day(entry.LoggedAt)
		if _, err := s.counters.AddProtein(ctx, entry.UserID, day, entry.ProteinG); err != nil {
			// The entry is saved; the counter drifts until the user edits it.
			s.logger.Warnw("failed to add log protein to daily counter",
				"user_id", entry.UserID, "entry_id", entry.ID, "error", err)
		}
	}

	return nil
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]models.LogEntry, error) {
	return s.store.ListLogEntries(ctx, userID, limit)
}

// Delete removes an entry and reverses its protein contribution on the
// counter for the entry's own calendar day, never today's. The counter is
// floored at zero.
func (s *Service) Delete(ctx context.Context, userID, entryID string) error {
	entry, err := s.store.DeleteLogEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}

	if entry.ProteinG > 0 {
		day := intake.Day(entry.LoggedAt)
		if _, err := s.counters.AddProtein(ctx, userID, day, -entry.ProteinG); err != nil {
			s.logger.Warnw("failed to reverse log protein on daily counter",
				"user_id", userID, "entry_id", entryID, "error", err)
		}
	}

	return nil
}
