package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"medtrack/internal/apperr"
	"medtrack/internal/models"
)

// DosageSchedule is the slim per-user view the nightly reminder pass reads.
type DosageSchedule struct {
	UserID          string
	DosageDay       string
	ShowMedReminder bool
}

func (db *PostgresDB) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	query := `
        INSERT INTO users (email, password_hash)
        VALUES ($1, $2)
        RETURNING id, created_at
    `

	user := &models.User{Email: email, PasswordHash: passwordHash}
	err := db.pool.QueryRow(ctx, query, email, passwordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (db *PostgresDB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
        SELECT id, email, password_hash, created_at
        FROM users
        WHERE email = $1
    `

	var user models.User
	err := db.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// CreateDefaultProfile inserts the empty profile row created on first sign-in.
// Idempotent: a second sign-in leaves the existing profile untouched.
func (db *PostgresDB) CreateDefaultProfile(ctx context.Context, userID string) error {
	query := `
        INSERT INTO profiles (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING
    `

	_, err := db.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to create default profile: %w", err)
	}
	return nil
}

func (db *PostgresDB) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := `
        SELECT user_id, name, gender, COALESCE(date_of_birth, 'epoch'::timestamptz),
               height_cm, height_feet, height_inches, weight_kg, target_weight_kg,
               weight_unit, activity_level, medication_name, dosage, dosage_day,
               dosage_time, bmi, protein_goal_g, show_med_reminder, seen_chat_intro,
               medical_conditions, dietary_preferences, created_at, updated_at
        FROM profiles
        WHERE user_id = $1
    `

	var p models.UserProfile
	err := db.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.Name, &p.Gender, &p.DateOfBirth,
		&p.HeightCm, &p.HeightFeet, &p.HeightInches, &p.WeightKg, &p.TargetKg,
		&p.WeightUnit, &p.ActivityLevel, &p.MedicationName, &p.Dosage, &p.DosageDay,
		&p.DosageTime, &p.BMI, &p.ProteinGoalG, &p.ShowMedReminder, &p.SeenChatIntro,
		&p.MedicalConditions, &p.DietaryPreferences, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

// SaveProfile writes the whole profile row in a single UPDATE, so derived
// fields always land together with the inputs they were computed from.
func (db *PostgresDB) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	query := `
        UPDATE profiles
        SET name = $2, gender = $3, date_of_birth = $4, height_cm = $5,
            height_feet = $6, height_inches = $7, weight_kg = $8,
            target_weight_kg = $9, weight_unit = $10, activity_level = $11,
            medication_name = $12, dosage = $13, dosage_day = $14,
            dosage_time = $15, bmi = $16, protein_goal_g = $17,
            show_med_reminder = $18, seen_chat_intro = $19,
            medical_conditions = $20, dietary_preferences = $21, updated_at = NOW()
        WHERE user_id = $1
    `

	tag, err := db.pool.Exec(ctx, query,
		p.UserID, p.Name, p.Gender, p.DateOfBirth, p.HeightCm,
		p.HeightFeet, p.HeightInches, p.WeightKg,
		p.TargetKg, p.WeightUnit, p.ActivityLevel,
		p.MedicationName, p.Dosage, p.DosageDay,
		p.DosageTime, p.BMI, p.ProteinGoalG,
		p.ShowMedReminder, p.SeenChatIntro,
		p.MedicalConditions, p.DietaryPreferences,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "profile not found")
	}

	return nil
}

// ListDosageSchedules returns every user's schedule for the nightly pass.
func (db *PostgresDB) ListDosageSchedules(ctx context.Context) ([]DosageSchedule, error) {
	query := `
        SELECT user_id, dosage_day, show_med_reminder
        FROM profiles
    `

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dosage schedules: %w", err)
	}
	defer rows.Close()

	var schedules []DosageSchedule
	for rows.Next() {
		var s DosageSchedule
		if err := rows.Scan(&s.UserID, &s.DosageDay, &s.ShowMedReminder); err != nil {
			return nil, fmt.Errorf("failed to scan dosage schedule: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

func (db *PostgresDB) SetReminderFlag(ctx context.Context, userID string, show bool) error {
	query := `
        UPDATE profiles
        SET show_med_reminder = $2, updated_at = NOW()
        WHERE user_id = $1
    `

	tag, err := db.pool.Exec(ctx, query, userID, show)
	if err != nil {
		return fmt.Errorf("failed to set reminder flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "profile not found")
	}
	return nil
}

// DeleteAccount removes the user's log entries, profile, and account row in
// one transaction.
func (db *PostgresDB) DeleteAccount(ctx context.Context, userID string) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM log_entries WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete log entries: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return tx.Commit(ctx)
}
