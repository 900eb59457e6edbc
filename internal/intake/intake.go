package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"medtrack/internal/models"
	"medtrack/pkg/logger"
)

// Fixed step amounts the UI controls add or remove per tap.
const (
	WaterStepMl  = 250.0
	ProteinStepG = 5.0
)

// Counters keep one running water and protein total per user per calendar
// day. Keys expire after 30 days; historical analysis reads log entries, not
// these counters.
const counterTTL = 30 * 24 * time.Hour

type Counters struct {
	rdb    *redis.Client
	logger *logger.Logger
}

func NewCounters(rdb *redis.Client, logger *logger.Logger) *Counters {
	return &Counters{rdb: rdb, logger: logger}
}

// Day formats a timestamp as the UTC calendar-day key component.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func key(userID, kind, day string) string {
	return fmt.Sprintf("intake:%s:%s:%s", userID, kind, day)
}

// AddWater adjusts the day's water total by delta milliliters and returns the
// new total, floored at zero.
func (c *Counters) AddWater(ctx context.Context, userID, day string, delta float64) (float64, error) {
	return c.add(ctx, key(userID, "water", day), delta)
}

// AddProtein adjusts the day's protein total by delta grams and returns the
// new total, floored at zero.
func (c *Counters) AddProtein(ctx context.Context, userID, day string, delta float64) (float64, error) {
	return c.add(ctx, key(userID, "protein", day), delta)
}

func (c *Counters) add(ctx context.Context, k string, delta float64) (float64, error) {
	total, err := c.rdb.IncrByFloat(ctx, k, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to adjust counter %s: %w", k, err)
	}

	// A decrement larger than the stored total must not leave a negative
	// counter behind.
	if total < 0 {
		if err := c.rdb.Set(ctx, k, "0", counterTTL).Err(); err != nil {
			return 0, fmt.Errorf("failed to clamp counter %s: %w", k, err)
		}
		return 0, nil
	}

	if err := c.rdb.Expire(ctx, k, counterTTL).Err(); err != nil {
		c.logger.Warnw("failed to refresh counter TTL", "key", k, "error", err)
	}

	return total, nil
}

// Totals reads both counters for one day. Missing keys read as zero.
func (c *Counters) Totals(ctx context.Context, userID, day string) (*models.DailyIntake, error) {
	water, err := c.get(ctx, key(userID, "water", day))
	if err != nil {
		return nil, err
	}
	protein, err := c.get(ctx, key(userID, "protein", day))
	if err != nil {
		return nil, err
	}

	return &models.DailyIntake{Date: day, WaterMl: water, ProteinG: protein}, nil
}

func (c *Counters) get(ctx context.Context, k string) (float64, error) {
	val, err := c.rdb.Get(ctx, k).Float64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", k, err)
	}
	return val, nil
}

// Purge removes every counter a user has, used on account deletion.
func (c *Counters) Purge(ctx context.Context, userID string) error {
	pattern := fmt.Sprintf("intake:%s:*", userID)

	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan counters for %s: %w", userID, err)
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete counters for %s: %w", userID, err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
