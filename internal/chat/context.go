package chat

import (
	"fmt"
	"strings"
	"time"

	"medtrack/internal/models"
)

const notProvided = "Not provided"

// ProfileContext serializes the fixed subset of profile fields into the
// natural-language block prepended to every prompt. The block always has the
// same shape: missing fields render as an explicit placeholder instead of
// being omitted, so the model receives a stable context even for brand-new
// users (a nil profile yields all placeholders).
func ProfileContext(p *models.UserProfile, now time.Time) string {
	var b strings.Builder
	b.WriteString("User profile:\n")

	write := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = notProvided
		}
		fmt.Fprintf(&b, "- %s: %s\n", label, value)
	}

	if p == nil {
		p = &models.UserProfile{}
	}

	write("Name", p.Name)
	write("Height", formatPositive(p.HeightCm, "%.0f cm"))
	write("Current weight", formatPositive(p.WeightKg, "%.1f kg"))
	write("Target weight", formatPositive(p.TargetKg, "%.1f kg"))
	write("Gender", p.Gender)
	write("Age", formatAge(p.DateOfBirth, now))
	write("Activity level", p.ActivityLevel)
	write("Medical conditions", p.MedicalConditions)
	write("Dietary preferences", p.DietaryPreferences)

	return b.String()
}

func formatPositive(v float64, format string) string {
	if v <= 0 {
		return ""
	}
	return fmt.Sprintf(format, v)
}

func formatAge(dob, now time.Time) string {
	if dob.IsZero() || dob.Unix() == 0 || !dob.Before(now) {
		return ""
	}
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	if age <= 0 || age > 130 {
		return ""
	}
	return fmt.Sprintf("%d", age)
}
