package logbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"medtrack/internal/apperr"
	"medtrack/internal/intake"
	"medtrack/internal/logbook"
	"medtrack/internal/models"
	"medtrack/pkg/logger"
)

// fakeLogStore is an in-memory logbook.Store.
type fakeLogStore struct {
	entries map[string]models.LogEntry
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{entries: make(map[string]models.LogEntry)}
}

func (f *fakeLogStore) CreateLogEntry(ctx context.Context, entry *models.LogEntry) error {
	if entry.ID == "" {
		entry.ID = "entry-" + entry.LoggedAt.Format("20060102150405")
	}
	entry.CreatedAt = time.Now()
	f.entries[entry.ID] = *entry
	return nil
}

func (f *fakeLogStore) ListLogEntries(ctx context.Context, userID string, limit int) ([]models.LogEntry, error) {
	var out []models.LogEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLogStore) DeleteLogEntry(ctx context.Context, userID, entryID string) (*models.LogEntry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.UserID != userID {
		return nil, apperr.New(apperr.KindNotFound, "log entry not found")
	}
	delete(f.entries, entryID)
	return &e, nil
}

func newTestService(t *testing.T) (*logbook.Service, *intake.Counters, *fakeLogStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	counters := intake.NewCounters(rdb, logger.NewNop())
	store := newFakeLogStore()
	return logbook.NewService(store, counters, logger.NewNop()), counters, store
}

func TestCreateAddsProteinToEntryDayCounter(t *testing.T) {
	svc, counters, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	entry := &models.LogEntry{
		UserID:    "u1",
		LoggedAt:  now,
		FoodNoise: 3,
		ProteinG:  30,
	}
	require.NoError(t, svc.Create(ctx, entry))

	totals, err := counters.Totals(ctx, "u1", intake.Day(now))
	require.NoError(t, err)
	require.Equal(t, 30.0, totals.ProteinG)
}

func TestCreateValidatesFoodNoiseRange(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Create(context.Background(), &models.LogEntry{UserID: "u1", FoodNoise: 0})
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	err = svc.Create(context.Background(), &models.LogEntry{UserID: "u1", FoodNoise: 6})
	require.Error(t, err)
}

func TestDeleteSameDayEntryReversesRunningCounter(t *testing.T) {
	svc, counters, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()
	today := intake.Day(now)

	// Manual taps plus a logged entry.
	_, err := counters.AddProtein(ctx, "u1", today, 20)
	require.NoError(t, err)

	entry := &models.LogEntry{UserID: "u1", LoggedAt: now, FoodNoise: 2, ProteinG: 30}
	require.NoError(t, svc.Create(ctx, entry))

	require.NoError(t, svc.Delete(ctx, "u1", entry.ID))

	totals, err := counters.Totals(ctx, "u1", today)
	require.NoError(t, err)
	require.Equal(t, 20.0, totals.ProteinG, "deletion removes exactly the entry's contribution")
}

func TestDeletePastDayEntryLeavesTodayUntouched(t *testing.T) {
	svc, counters, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	pastEntry := &models.LogEntry{UserID: "u1", LoggedAt: yesterday, FoodNoise: 2, ProteinG: 40}
	require.NoError(t, svc.Create(ctx, pastEntry))

	_, err := counters.AddProtein(ctx, "u1", intake.Day(now), 25)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", pastEntry.ID))

	pastTotals, err := counters.Totals(ctx, "u1", intake.Day(yesterday))
	require.NoError(t, err)
	require.Equal(t, 0.0, pastTotals.ProteinG, "past day's stored total is adjusted")

	todayTotals, err := counters.Totals(ctx, "u1", intake.Day(now))
	require.NoError(t, err)
	require.Equal(t, 25.0, todayTotals.ProteinG, "today's running counter is untouched")
}

func TestDeleteNeverDrivesCounterBelowZero(t *testing.T) {
	svc, counters, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	entry := &models.LogEntry{UserID: "u1", LoggedAt: now, FoodNoise: 2, ProteinG: 30}
	require.NoError(t, svc.Create(ctx, entry))

	// The user manually decremented the counter after saving the entry.
	_, err := counters.AddProtein(ctx, "u1", intake.Day(now), -20)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", entry.ID))

	totals, err := counters.Totals(ctx, "u1", intake.Day(now))
	require.NoError(t, err)
	require.Equal(t, 0.0, totals.ProteinG)
}

func TestDeleteUnknownEntry(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Delete(context.Background(), "u1", "missing")
	require.Error(t, err)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
