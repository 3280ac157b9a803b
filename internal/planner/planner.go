// Package planner builds meal plans and workouts from fixed templates.
// Nothing here touches storage; callers persist the drafts.
package planner

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/nutrition"
)

// ClientData is the profile snapshot a generation request carries.
type ClientData struct {
	Height              float64              `json:"height"`
	Weight              float64              `json:"weight"`
	GoalWeight          *float64             `json:"goalWeight,omitempty"`
	FitnessGoal         domain.FitnessGoal   `json:"fitnessGoal"`
	ActivityLevel       domain.ActivityLevel `json:"activityLevel"`
	Gender              domain.Gender        `json:"gender"`
	DietaryRestrictions string               `json:"dietaryRestrictions,omitempty"`
}

// FromClient snapshots a stored client profile.
func FromClient(c *domain.Client) ClientData {
	return ClientData{
		Height:              c.Height,
		Weight:              c.CurrentWeight,
		GoalWeight:          c.GoalWeight,
		FitnessGoal:         c.FitnessGoal,
		ActivityLevel:       c.ActivityLevel,
		Gender:              c.Gender,
		DietaryRestrictions: c.DietaryRestrictions,
	}
}

// Metrics projects the fields the calculator uses.
func (d ClientData) Metrics() nutrition.Metrics {
	return nutrition.Metrics{
		WeightKg:      d.Weight,
		HeightCm:      d.Height,
		Gender:        d.Gender,
		ActivityLevel: d.ActivityLevel,
		Goal:          d.FitnessGoal,
	}
}
