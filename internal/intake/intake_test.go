package intake_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"

	"medtrack/internal/intake"
	"medtrack/pkg/logger"
)

func newTestCounters(t *testing.T) (*intake.Counters, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return intake.NewCounters(rdb, logger.NewNop()), mr
}

func TestAddWaterAccumulates(t *testing.T) {
	c, _ := newTestCounters(t)
	ctx := context.Background()
	day := intake.Day(time.Now())

	total, err := c.AddWater(ctx, "u1", day, intake.WaterStepMl)
	require.NoError(t, err)
	require.Equal(t, 250.0, total)

	total, err = c.AddWater(ctx, "u1", day, intake.WaterStepMl)
	require.NoError(t, err)
	require.Equal(t, 500.0, total)
}

func TestDecrementClampsAtZero(t *testing.T) {
	c, _ := newTestCounters(t)
	ctx := context.Background()
	day := "2026-08-31"

	_, err := c.AddProtein(ctx, "u1", day, 10)
	require.NoError(t, err)

	total, err := c.AddProtein(ctx, "u1", day, -25)
	require.NoError(t, err)
	require.Equal(t, 0.0, total)

	got, err := c.Totals(ctx, "u1", day)
	require.NoError(t, err)
	require.Equal(t, 0.0, got.ProteinG)
}

func TestTotalsAreIndependentPerDay(t *testing.T) {
	c, _ := newTestCounters(t)
	ctx := context.Background()

	_, err := c.AddProtein(ctx, "u1", "2026-08-30", 40)
	require.NoError(t, err)
	_, err = c.AddProtein(ctx, "u1", "2026-08-31", 15)
	require.NoError(t, err)

	// Removing protein from the past day must leave the other day untouched.
	total, err := c.AddProtein(ctx, "u1", "2026-08-30", -40)
	require.NoError(t, err)
	require.Equal(t, 0.0, total)

	today, err := c.Totals(ctx, "u1", "2026-08-31")
	require.NoError(t, err)
	require.Equal(t, 15.0, today.ProteinG)
}

func TestTotalsZeroWhenUnset(t *testing.T) {
	c, _ := newTestCounters(t)

	got, err := c.Totals(context.Background(), "nobody", "2026-01-01")
	require.NoError(t, err)
	require.Equal(t, 0.0, got.WaterMl)
	require.Equal(t, 0.0, got.ProteinG)
}

func TestPurgeRemovesAllUserCounters(t *testing.T) {
	c, mr := newTestCounters(t)
	ctx := context.Background()

	_, err := c.AddWater(ctx, "u1", "2026-08-30", 250)
	require.NoError(t, err)
	_, err = c.AddProtein(ctx, "u1", "2026-08-31", 20)
	require.NoError(t, err)
	_, err = c.AddWater(ctx, "u2", "2026-08-31", 250)
	require.NoError(t, err)

	require.NoError(t, c.Purge(ctx, "u1"))

	require.False(t, mr.Exists("intake:u1:water:2026-08-30"))
	require.False(t, mr.Exists("intake:u1:protein:2026-08-31"))
	require.True(t, mr.Exists("intake:u2:water:2026-08-31"))
}
