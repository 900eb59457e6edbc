package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"medtrack/internal/apperr"
	"medtrack/internal/models"
)

func (db *PostgresDB) CreateLogEntry(ctx context.Context, entry *models.LogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
        INSERT INTO log_entries (id, user_id, logged_at, weight_kg, side_effect, emotion, food_noise, protein_g)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at
    `

	err := db.pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.LoggedAt, entry.WeightKg,
		entry.SideEffect, entry.Emotion, entry.FoodNoise, entry.ProteinG,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create log entry: %w", err)
	}

	return nil
}

func (db *PostgresDB) ListLogEntries(ctx context.Context, userID string, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
        SELECT id, user_id, logged_at, weight_kg, side_effect, emotion, food_noise, protein_g, created_at
        FROM log_entries
        WHERE user_id = $1
        ORDER BY logged_at DESC
        LIMIT $2
    `

	rows, err := db.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LogEntry, 0)
	for rows.Next() {
		var e models.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.LoggedAt, &e.WeightKg,
			&e.SideEffect, &e.Emotion, &e.FoodNoise, &e.ProteinG, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// DeleteLogEntry removes an entry and returns it, so the caller can reverse
// its protein contribution on the right day's counter.
func (db *PostgresDB) DeleteLogEntry(ctx context.Context, userID, entryID string) (*models.LogEntry, error) {
	query := `
        DELETE FROM log_entries
        WHERE id = $1 AND user_id = $2
        RETURNING id, user_id, logged_at, weight_kg, side_effect, emotion, food_noise, protein_g, created_at
    `

	var e models.LogEntry
	err := db.pool.QueryRow(ctx, query, entryID, userID).Scan(
		&e.ID, &e.UserID, &e.LoggedAt, &e.WeightKg,
		&e.SideEffect, &e.Emotion, &e.FoodNoise, &e.ProteinG, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "log entry not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete log entry: %w", err)
	}

	return &e, nil
}
