package onboarding

import (
	"context"
	"fmt"
	"strings"

	"medtrack/internal/apperr"
	"medtrack/internal/models"
)

// Step identifies one screen of the linear onboarding wizard.
type Step string

const (
	StepName          Step = "name"
	StepDOB           Step = "dob"
	StepGender        Step = "gender"
	StepHeight        Step = "height"
	StepWeight        Step = "weight"
	StepTargetWeight  Step = "target_weight"
	StepActivity      Step = "activity"
	StepMedication    Step = "medication"
	StepDosage        Step = "dosage"
	StepSchedule      Step = "schedule"
	StepNotifications Step = "notifications"
)

// Steps in wizard order. The sequence is strictly linear; a step unlocks only
// when every step before it holds a non-default value.
var Steps = []Step{
	StepName, StepDOB, StepGender, StepHeight, StepWeight, StepTargetWeight,
	StepActivity, StepMedication, StepDosage, StepSchedule, StepNotifications,
}

// requiredSteps are the steps whose fields decide completion. Notification
// permission is device state, not profile state, so it is excluded.
var requiredSteps = Steps[:len(Steps)-1]

// stepDone reports whether the profile already holds a non-default value for
// one step.
func stepDone(p *models.UserProfile, step Step) bool {
	switch step {
	case StepName:
		return strings.TrimSpace(p.Name) != ""
	case StepDOB:
		return !p.DateOfBirth.IsZero() && p.DateOfBirth.Unix() != 0
	case StepGender:
		return strings.TrimSpace(p.Gender) != ""
	case StepHeight:
		return p.HeightCm > 0
	case StepWeight:
		return p.WeightKg > 0
	case StepTargetWeight:
		return p.TargetKg > 0
	case StepActivity:
		return strings.TrimSpace(p.ActivityLevel) != ""
	case StepMedication:
		return strings.TrimSpace(p.MedicationName) != ""
	case StepDosage:
		return strings.TrimSpace(p.Dosage) != ""
	case StepSchedule:
		return p.DosageDay != "" && p.DosageTime != ""
	case StepNotifications:
		return true
	}
	return false
}

// IsComplete is the authoritative completion contract: it re-scans the
// required fields on every call instead of trusting a stored flag, so a user
// who later blanks a required field in settings is routed back into
// onboarding.
func IsComplete(p *models.UserProfile) bool {
	for _, step := range requiredSteps {
		if !stepDone(p, step) {
			return false
		}
	}
	return true
}

// NextStep returns the first incomplete step, or done=true when the wizard
// has nothing left to collect.
func NextStep(p *models.UserProfile) (next Step, done bool) {
	for _, step := range requiredSteps {
		if !stepDone(p, step) {
			return step, false
		}
	}
	return "", true
}

// ProfileService is the slice of the profile service the controller drives.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error)
}

// Controller validates one wizard step's submission and merge-writes it to
// the shared profile on every "continue".
type Controller struct {
	profiles ProfileService
}

func NewController(profiles ProfileService) *Controller {
	return &Controller{profiles: profiles}
}

// Status reports the wizard position for a user.
type Status struct {
	NextStep Step `json:"next_step,omitempty"`
	Complete bool `json:"complete"`
}

func (c *Controller) Status(ctx context.Context, userID string) (*Status, error) {
	p, err := c.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	next, done := NextStep(p)
	return &Status{NextStep: next, Complete: done}, nil
}

// Submit applies one step's values. The step gates on a non-default value:
// an empty submission is rejected rather than advancing the wizard.
func (c *Controller) Submit(ctx context.Context, userID string, step Step, upd models.ProfileUpdate) (*models.UserProfile, *Status, error) {
	if err := validateStep(ctx, c.profiles, userID, step, upd); err != nil {
		return nil, nil, err
	}

	p, err := c.profiles.Update(ctx, userID, upd)
	if err != nil {
		return nil, nil, err
	}

	next, done := NextStep(p)
	return p, &Status{NextStep: next, Complete: done}, nil
}

func validateStep(ctx context.Context, profiles ProfileService, userID string, step Step, upd models.ProfileUpdate) error {
	missing := func(field string) error {
		return apperr.New(apperr.KindInvalidArgument,
			fmt.Sprintf("step %q requires a non-empty %s", step, field))
	}

	switch step {
	case StepName:
		if upd.Name == nil || strings.TrimSpace(*upd.Name) == "" {
			return missing("name")
		}
	case StepDOB:
		if upd.DateOfBirth == nil || upd.DateOfBirth.IsZero() {
			return missing("date of birth")
		}
	case StepGender:
		if upd.Gender == nil || strings.TrimSpace(*upd.Gender) == "" {
			return missing("gender")
		}
	case StepHeight:
		if upd.HeightCm == nil || *upd.HeightCm <= 0 {
			return missing("positive height")
		}
	case StepWeight:
		if upd.WeightKg == nil || *upd.WeightKg <= 0 {
			return missing("positive weight")
		}
	case StepTargetWeight:
		if upd.TargetKg == nil || *upd.TargetKg <= 0 {
			return missing("positive target weight")
		}
	case StepActivity:
		if upd.ActivityLevel == nil || strings.TrimSpace(*upd.ActivityLevel) == "" {
			return missing("activity level")
		}
	case StepMedication:
		if upd.MedicationName == nil {
			return missing("medication")
		}
		if findMedication(*upd.MedicationName) == nil {
			return apperr.New(apperr.KindInvalidArgument,
				fmt.Sprintf("unknown medication %q", *upd.MedicationName))
		}
	case StepDosage:
		if upd.Dosage == nil || strings.TrimSpace(*upd.Dosage) == "" {
			return missing("dosage")
		}
		p, err := profiles.Get(ctx, userID)
		if err != nil {
			return err
		}
		med := findMedication(p.MedicationName)
		if med == nil {
			return apperr.New(apperr.KindInvalidArgument, "select a medication before a dosage")
		}
		if !med.HasDosage(*upd.Dosage) {
			return apperr.New(apperr.KindInvalidArgument,
				fmt.Sprintf("dosage %q is not valid for %s", *upd.Dosage, med.Name))
		}
	case StepSchedule:
		if upd.DosageDay == nil || *upd.DosageDay == "" {
			return missing("dosage day")
		}
		if upd.DosageTime == nil || strings.TrimSpace(*upd.DosageTime) == "" {
			return missing("dosage time")
		}
	case StepNotifications:
		// Permission lives on the device; nothing to validate here.
	default:
		return apperr.New(apperr.KindInvalidArgument, fmt.Sprintf("unknown onboarding step %q", step))
	}

	return nil
}

func findMedication(name string) *models.Medication {
	for i := range models.Medications {
		if models.Medications[i].Name == name {
			return &models.Medications[i]
		}
	}
	return nil
}
