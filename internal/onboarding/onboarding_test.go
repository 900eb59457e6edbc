package onboarding_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"medtrack/internal/apperr"
	"medtrack/internal/models"
	"medtrack/internal/onboarding"
)

func ptr[T any](v T) *T { return &v }

func completeProfile() *models.UserProfile {
	return &models.UserProfile{
		Name:           "Dana",
		Gender:         "Female",
		DateOfBirth:    time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		HeightCm:       178,
		WeightKg:       80,
		TargetKg:       72,
		ActivityLevel:  "Moderately Active",
		MedicationName: "Wegovy",
		Dosage:         "1 mg",
		DosageDay:      "We",
		DosageTime:     "08:00",
	}
}

func TestIsCompleteOnDefaultsAndFullProfile(t *testing.T) {
	t.Parallel()

	require.False(t, onboarding.IsComplete(&models.UserProfile{}))
	require.True(t, onboarding.IsComplete(completeProfile()))
}

func TestBlankingARequiredFieldReopensOnboarding(t *testing.T) {
	t.Parallel()

	p := completeProfile()
	p.MedicationName = ""
	require.False(t, onboarding.IsComplete(p),
		"clearing medication in settings routes the user back into onboarding")

	next, done := onboarding.NextStep(p)
	require.False(t, done)
	require.Equal(t, onboarding.StepMedication, next)
}

func TestEpochDateOfBirthCountsAsDefault(t *testing.T) {
	t.Parallel()

	p := completeProfile()
	p.DateOfBirth = time.Unix(0, 0)
	require.False(t, onboarding.IsComplete(p))
}

func TestNextStepWalksTheWizardInOrder(t *testing.T) {
	t.Parallel()

	p := &models.UserProfile{}
	next, done := onboarding.NextStep(p)
	require.False(t, done)
	require.Equal(t, onboarding.StepName, next)

	p.Name = "Dana"
	next, _ = onboarding.NextStep(p)
	require.Equal(t, onboarding.StepDOB, next)

	p.DateOfBirth = time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	next, _ = onboarding.NextStep(p)
	require.Equal(t, onboarding.StepGender, next)
}

// fakeProfiles implements onboarding.ProfileService over a single profile.
type fakeProfiles struct {
	profile models.UserProfile
}

func (f *fakeProfiles) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	copied := f.profile
	return &copied, nil
}

func (f *fakeProfiles) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	if upd.Name != nil {
		f.profile.Name = *upd.Name
	}
	if upd.MedicationName != nil {
		f.profile.MedicationName = *upd.MedicationName
	}
	if upd.Dosage != nil {
		f.profile.Dosage = *upd.Dosage
	}
	copied := f.profile
	return &copied, nil
}

func TestSubmitRejectsEmptyStepValue(t *testing.T) {
	t.Parallel()

	c := onboarding.NewController(&fakeProfiles{})

	_, _, err := c.Submit(context.Background(), "u1", onboarding.StepName, models.ProfileUpdate{
		Name: ptr("   "),
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
}

func TestSubmitValidatesDosageAgainstSelectedMedication(t *testing.T) {
	t.Parallel()

	profiles := &fakeProfiles{}
	profiles.profile.MedicationName = "Wegovy"
	c := onboarding.NewController(profiles)

	_, _, err := c.Submit(context.Background(), "u1", onboarding.StepDosage, models.ProfileUpdate{
		Dosage: ptr("15 mg"),
	})
	require.Error(t, err, "15 mg is a Mounjaro dosage, not a Wegovy one")
	require.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))

	_, _, err = c.Submit(context.Background(), "u1", onboarding.StepDosage, models.ProfileUpdate{
		Dosage: ptr("2.4 mg"),
	})
	require.NoError(t, err)
}

func TestSubmitRejectsUnknownMedication(t *testing.T) {
	t.Parallel()

	c := onboarding.NewController(&fakeProfiles{})

	_, _, err := c.Submit(context.Background(), "u1", onboarding.StepMedication, models.ProfileUpdate{
		MedicationName: ptr("Sugar Pills"),
	})
	require.Error(t, err)
}

func TestSubmitAdvancesStatus(t *testing.T) {
	t.Parallel()

	c := onboarding.NewController(&fakeProfiles{})

	_, status, err := c.Submit(context.Background(), "u1", onboarding.StepName, models.ProfileUpdate{
		Name: ptr("Dana"),
	})
	require.NoError(t, err)
	require.False(t, status.Complete)
	require.Equal(t, onboarding.StepDOB, status.NextStep)
}
