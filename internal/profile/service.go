package profile

import (
	"context"
	"fmt"
	"time"

	"medtrack/internal/apperr"
	"medtrack/internal/metrics"
	"medtrack/internal/models"
	"medtrack/internal/reminder"
	"medtrack/pkg/logger"
)

// Store is the persistence surface the service drives.
type Store interface {
	CreateDefaultProfile(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, p *models.UserProfile) error
	SetReminderFlag(ctx context.Context, userID string, show bool) error
	DeleteAccount(ctx context.Context, userID string) error
}

// CounterPurger removes a user's daily intake counters on account deletion.
type CounterPurger interface {
	Purge(ctx context.Context, userID string) error
}

type Service struct {
	store    Store
	counters CounterPurger
	logger   *logger.Logger
}

func NewService(store Store, counters CounterPurger, logger *logger.Logger) *Service {
	return &Service{store: store, counters: counters, logger: logger}
}

func (s *Service) Create(ctx context.Context, userID string) error {
	return s.store.CreateDefaultProfile(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.store.GetProfile(ctx, userID)
}

// Update applies a merge-style partial update. BMI and the protein goal are
// recomputed whenever weight, height, or activity level changes and persisted
// in the same write as the inputs; a dosage-day change re-evaluates the
// reminder flag immediately instead of waiting for the nightly pass.
func (s *Service) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	if upd.DosageDay != nil && *upd.DosageDay != "" {
		if _, ok := reminder.DayIndex(*upd.DosageDay); !ok {
			return nil, apperr.New(apperr.KindInvalidArgument,
				fmt.Sprintf("invalid dosage day %q", *upd.DosageDay))
		}
	}

	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldDosageDay := p.DosageDay
	apply(p, upd)

	// Derived fields always travel with the inputs they were computed from.
	p.BMI, p.ProteinGoalG = metrics.Calculate(p.WeightKg, p.HeightCm, p.ActivityLevel)
	p.HeightFeet, p.HeightInches = metrics.CmToFeetInches(p.HeightCm)

	if p.DosageDay != oldDosageDay {
		p.ShowMedReminder = reminder.ShouldRemind(p.DosageDay, time.Now())
	}

	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// AcknowledgeReminder clears the reminder flag after the user taps "skip" or
// "taken". The schedule itself is untouched; the flag comes back on the next
// matching day.
func (s *Service) AcknowledgeReminder(ctx context.Context, userID string) error {
	return s.store.SetReminderFlag(ctx, userID, false)
}

// DeleteAccount removes the profile, its log entries, and the user's intake
// counters. Sign-out never reaches this path.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.store.DeleteAccount(ctx, userID); err != nil {
		return err
	}
	if err := s.counters.Purge(ctx, userID); err != nil {
		// The account row is already gone; orphaned counters expire on
		// their own TTL, so log instead of failing the deletion.
		s.logger.Warnw("failed to purge intake counters", "user_id", userID, "error", err)
	}
	return nil
}

func apply(p *models.UserProfile, upd models.ProfileUpdate) {
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Gender != nil {
		p.Gender = *upd.Gender
	}
	if upd.DateOfBirth != nil {
		p.DateOfBirth = *upd.DateOfBirth
	}
	if upd.HeightCm != nil {
		p.HeightCm = *upd.HeightCm
	}
	if upd.WeightKg != nil {
		p.WeightKg = *upd.WeightKg
	}
	if upd.TargetKg != nil {
		p.TargetKg = *upd.TargetKg
	}
	if upd.WeightUnit != nil {
		p.WeightUnit = *upd.WeightUnit
	}
	if upd.ActivityLevel != nil {
		p.ActivityLevel = *upd.ActivityLevel
	}
	if upd.MedicationName != nil {
		p.MedicationName = *upd.MedicationName
	}
	if upd.Dosage != nil {
		p.Dosage = *upd.Dosage
	}
	if upd.DosageDay != nil {
		p.DosageDay = *upd.DosageDay
	}
	if upd.DosageTime != nil {
		p.DosageTime = *upd.DosageTime
	}
	if upd.SeenChatIntro != nil {
		p.SeenChatIntro = *upd.SeenChatIntro
	}
	if upd.MedicalConditions != nil {
		p.MedicalConditions = *upd.MedicalConditions
	}
	if upd.DietaryPreferences != nil {
		p.DietaryPreferences = *upd.DietaryPreferences
	}
}
