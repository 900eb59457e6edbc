package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(cfg struct {
	Host         string
	Port         string
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}) (*PostgresDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxOpenConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}

	// Set connection pool parameters
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	// Connect with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection works
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &PostgresDB{pool: pool}
	if err := db.createTables(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func (db *PostgresDB) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			date_of_birth TIMESTAMP WITH TIME ZONE,
			height_cm DOUBLE PRECISION NOT NULL DEFAULT 0,
			height_feet INT NOT NULL DEFAULT 0,
			height_inches INT NOT NULL DEFAULT 0,
			weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
			target_weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
			weight_unit TEXT NOT NULL DEFAULT 'kg',
			activity_level TEXT NOT NULL DEFAULT '',
			medication_name TEXT NOT NULL DEFAULT '',
			dosage TEXT NOT NULL DEFAULT '',
			dosage_day TEXT NOT NULL DEFAULT '',
			dosage_time TEXT NOT NULL DEFAULT '',
			bmi DOUBLE PRECISION NOT NULL DEFAULT 0,
			protein_goal_g DOUBLE PRECISION NOT NULL DEFAULT 0,
			show_med_reminder BOOLEAN NOT NULL DEFAULT FALSE,
			seen_chat_intro BOOLEAN NOT NULL DEFAULT FALSE,
			medical_conditions TEXT NOT NULL DEFAULT '',
			dietary_preferences TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS log_entries (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			logged_at TIMESTAMP WITH TIME ZONE NOT NULL,
			weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
			side_effect TEXT NOT NULL DEFAULT '',
			emotion TEXT NOT NULL DEFAULT '',
			food_noise INT NOT NULL DEFAULT 0,
			protein_g DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_log_entries_user_logged
			ON log_entries(user_id, logged_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.pool.Exec(ctx, query); err != nil {
			return err
		}
	}

	return nil
}

func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
