package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FitnessGoal selects plan templates and the calorie adjustment.
type FitnessGoal string

const (
	GoalLoseWeight       FitnessGoal = "lose_weight"
	GoalGainMuscle       FitnessGoal = "gain_muscle"
	GoalMaintain         FitnessGoal = "maintain"
	GoalImproveEndurance FitnessGoal = "improve_endurance"
)

// Valid reports whether g is one of the known goals.
func (g FitnessGoal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalGainMuscle, GoalMaintain, GoalImproveEndurance:
		return true
	}
	return false
}

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is a known gender. Empty means not provided.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Client is the body/goal profile a trainer manages. UserID links the login
// identity the client uses for their own dashboard.
type Client struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID              *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	TrainerID           primitive.ObjectID  `bson:"trainerId" json:"trainerId"`
	FullName            string              `bson:"fullName" json:"fullName"`
	Email               string              `bson:"email" json:"email"`
	DateOfBirth         *time.Time          `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender              Gender              `bson:"gender,omitempty" json:"gender,omitempty"`
	Height              float64             `bson:"height" json:"height"`               // cm
	CurrentWeight       float64             `bson:"currentWeight" json:"currentWeight"` // kg
	GoalWeight          *float64            `bson:"goalWeight,omitempty" json:"goalWeight,omitempty"`
	FitnessGoal         FitnessGoal         `bson:"fitnessGoal" json:"fitnessGoal"`
	ActivityLevel       ActivityLevel       `bson:"activityLevel" json:"activityLevel"`
	MedicalConditions   string              `bson:"medicalConditions,omitempty" json:"medicalConditions,omitempty"`
	DietaryRestrictions string              `bson:"dietaryRestrictions,omitempty" json:"dietaryRestrictions,omitempty"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}
