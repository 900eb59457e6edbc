package chat_test

import (
	"strings"
	"testing"
	"time"

	"medtrack/internal/chat"
	"medtrack/internal/models"
)

var contextNow = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestProfileContextNilProfileRendersAllPlaceholders(t *testing.T) {
	t.Parallel()

	block := chat.ProfileContext(nil, contextNow)

	labels := []string{
		"Name", "Height", "Current weight", "Target weight", "Gender",
		"Age", "Activity level", "Medical conditions", "Dietary preferences",
	}
	for _, label := range labels {
		if !strings.Contains(block, label+": Not provided") {
			t.Errorf("expected %q to be a placeholder, block:\n%s", label, block)
		}
	}
}

func TestProfileContextComputesAge(t *testing.T) {
	t.Parallel()

	p := &models.UserProfile{
		DateOfBirth: time.Date(1990, 10, 15, 0, 0, 0, 0, time.UTC),
	}
	block := chat.ProfileContext(p, contextNow)

	// Birthday hasn't happened yet in 2026.
	if !strings.Contains(block, "Age: 35") {
		t.Fatalf("expected age 35, block:\n%s", block)
	}
}

func TestProfileContextTreatsEpochDOBAsMissing(t *testing.T) {
	t.Parallel()

	p := &models.UserProfile{DateOfBirth: time.Unix(0, 0)}
	block := chat.ProfileContext(p, contextNow)

	if !strings.Contains(block, "Age: Not provided") {
		t.Fatalf("epoch date of birth should render as missing, block:\n%s", block)
	}
}

func TestProfileContextIsFixedShape(t *testing.T) {
	t.Parallel()

	empty := chat.ProfileContext(nil, contextNow)
	full := chat.ProfileContext(&models.UserProfile{
		Name: "Dana", Gender: "Female", HeightCm: 178, WeightKg: 80,
		TargetKg: 72, ActivityLevel: "Very Active",
		MedicalConditions: "None", DietaryPreferences: "Vegetarian",
	}, contextNow)

	if strings.Count(empty, "\n") != strings.Count(full, "\n") {
		t.Fatal("context block line count must not depend on which fields are set")
	}
}
