// Package nutrition derives daily energy and macronutrient targets from body metrics.
package nutrition

import (
	"math"

	"alcyxob/fitcoach/internal/domain"
)

// Age is not collected, so BMR uses a fixed adult age.
const assumedAge = 30

const (
	defaultActivityMultiplier = 1.55
	loseWeightAdjustment      = -500
	gainMuscleAdjustment      = 300

	proteinGramsPerKg = 2.0
	fatCalorieShare   = 0.25

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// activityMultipliers maps activity levels to their TDEE multiplier.
var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.2,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.9,
}

// Metrics is the subset of a client profile the calculator needs.
type Metrics struct {
	WeightKg      float64
	HeightCm      float64
	Gender        domain.Gender
	ActivityLevel domain.ActivityLevel
	Goal          domain.FitnessGoal
}

// Target is a daily nutrition target. Macros are grams.
type Target struct {
	DailyCalories int `json:"dailyCalories"`
	Protein       int `json:"protein"`
	Carbs         int `json:"carbs"`
	Fats          int `json:"fats"`
}

// ActivityMultiplier returns the TDEE multiplier for level, falling back to moderate.
func ActivityMultiplier(level domain.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultActivityMultiplier
}

// BMR is the Mifflin-St Jeor basal rate. Anything other than male uses the female constant.
func BMR(m Metrics) float64 {
	bmr := 10*m.WeightKg + 6.25*m.HeightCm - 5*assumedAge
	if m.Gender == domain.GenderMale {
		return bmr + 5
	}
	return bmr - 161
}

// TDEE is BMR scaled by the activity multiplier.
func TDEE(m Metrics) float64 {
	return BMR(m) * ActivityMultiplier(m.ActivityLevel)
}

// DailyCalories applies the goal adjustment to TDEE and rounds to whole kcal.
// No clamp is applied; extreme inputs can produce low or negative values.
func DailyCalories(m Metrics) int {
	tdee := TDEE(m)
	switch m.Goal {
	case domain.GoalLoseWeight:
		tdee += loseWeightAdjustment
	case domain.GoalGainMuscle:
		tdee += gainMuscleAdjustment
	}
	return Round(tdee)
}

// Targets derives calories, then protein from body weight, fats as a fixed
// calorie share, and carbs as whatever energy remains.
func Targets(m Metrics) Target {
	calories := DailyCalories(m)
	protein := Round(m.WeightKg * proteinGramsPerKg)
	fats := Round(float64(calories) * fatCalorieShare / kcalPerGramFat)
	return Target{
		DailyCalories: calories,
		Protein:       protein,
		Carbs:         CarbsFor(calories, protein, fats),
		Fats:          fats,
	}
}

// CarbsFor solves carbohydrate grams from the energy left after protein and fat.
// The result can be negative for very low calorie / high weight inputs.
func CarbsFor(dailyCalories, protein, fats int) int {
	remaining := dailyCalories - protein*kcalPerGramProtein - fats*kcalPerGramFat
	return Round(float64(remaining) / kcalPerGramCarbs)
}

// Round rounds half up (toward +Inf), so -2.5 becomes -2 and 2.5 becomes 3.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}
