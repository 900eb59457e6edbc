// internal/models/profile.go
package models

import (
	"time"
)

// Activity levels as stored on the profile. Unknown values are tolerated
// downstream and treated as Sedentary.
const (
	ActivitySedentary  = "Sedentary"
	ActivityLight      = "Light Activity"
	ActivityModerate   = "Moderately Active"
	ActivityVeryActive = "Very Active"
)

// Two-letter dosage day codes. An empty code means no dosage scheduled.
var DayCodes = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfile is the single per-user document. Height and weight are stored
// in canonical units (cm / kg) regardless of the unit the client displays;
// BMI and ProteinGoalG are derived and never written by the client.
type UserProfile struct {
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Gender        string    `json:"gender"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	HeightCm      float64   `json:"height_cm"`
	HeightFeet    int       `json:"height_feet"`
	HeightInches  int       `json:"height_inches"`
	WeightKg      float64   `json:"weight_kg"`
	TargetKg      float64   `json:"target_weight_kg"`
	WeightUnit    string    `json:"weight_unit"`
	ActivityLevel string    `json:"activity_level"`

	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	DosageDay      string `json:"dosage_day"`
	DosageTime     string `json:"dosage_time"`

	BMI          float64 `json:"bmi"`
	ProteinGoalG float64 `json:"protein_goal_g"`

	ShowMedReminder bool `json:"show_med_reminder"`
	SeenChatIntro   bool `json:"seen_chat_intro"`

	MedicalConditions  string `json:"medical_conditions"`
	DietaryPreferences string `json:"dietary_preferences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate is a merge-style partial update. Nil fields are left
// untouched; non-nil fields overwrite the stored value.
type ProfileUpdate struct {
	Name          *string    `json:"name,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	HeightCm      *float64   `json:"height_cm,omitempty"`
	WeightKg      *float64   `json:"weight_kg,omitempty"`
	TargetKg      *float64   `json:"target_weight_kg,omitempty"`
	WeightUnit    *string    `json:"weight_unit,omitempty"`
	ActivityLevel *string    `json:"activity_level,omitempty"`

	MedicationName *string `json:"medication_name,omitempty"`
	Dosage         *string `json:"dosage,omitempty"`
	DosageDay      *string `json:"dosage_day,omitempty"`
	DosageTime     *string `json:"dosage_time,omitempty"`

	SeenChatIntro *bool `json:"seen_chat_intro,omitempty"`

	MedicalConditions  *string `json:"medical_conditions,omitempty"`
	DietaryPreferences *string `json:"dietary_preferences,omitempty"`
}

// Medication describes a selectable medication and its valid dosages.
type Medication struct {
	Name    string   `json:"name"`
	Dosages []string `json:"dosages"`
}

// HasDosage reports whether a dosage string is valid for this medication.
func (m Medication) HasDosage(dosage string) bool {
	for _, d := range m.Dosages {
		if d == dosage {
			return true
		}
	}
	return false
}

// Medications is the fixed catalog the onboarding dosage step validates against.
var Medications = []Medication{
	{Name: "Ozempic", Dosages: []string{"0.25 mg", "0.5 mg", "1 mg", "2 mg"}},
	{Name: "Wegovy", Dosages: []string{"0.25 mg", "0.5 mg", "1 mg", "1.7 mg", "2.4 mg"}},
	{Name: "Mounjaro", Dosages: []string{"2.5 mg", "5 mg", "7.5 mg", "10 mg", "12.5 mg", "15 mg"}},
	{Name: "Zepbound", Dosages: []string{"2.5 mg", "5 mg", "7.5 mg", "10 mg", "12.5 mg", "15 mg"}},
	{Name: "Saxenda", Dosages: []string{"0.6 mg", "1.2 mg", "1.8 mg", "2.4 mg", "3 mg"}},
}
