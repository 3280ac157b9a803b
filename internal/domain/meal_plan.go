// internal/domain/meal_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealType is the slot a Meal fills in the day. Snack appears more than once.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealSnack     MealType = "snack"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealSnack, MealLunch, MealDinner:
		return true
	}
	return false
}

// MealPlan is a client's daily nutrition plan. At most one plan per client is active.
type MealPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	DailyCalories int                `bson:"dailyCalories" json:"dailyCalories"`
	ProteinGrams  int                `bson:"proteinGrams" json:"proteinGrams"`
	CarbsGrams    int                `bson:"carbsGrams" json:"carbsGrams"`
	FatsGrams     int                `bson:"fatsGrams" json:"fatsGrams"`
	AIGenerated   bool               `bson:"aiGenerated" json:"aiGenerated"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Meal belongs to exactly one MealPlan; OrderIndex is unique within it.
type Meal struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MealPlanID   primitive.ObjectID `bson:"mealPlanId" json:"mealPlanId"`
	MealType     MealType           `bson:"mealType" json:"mealType"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Calories     int                `bson:"calories" json:"calories"`
	ProteinGrams int                `bson:"proteinGrams" json:"proteinGrams"`
	CarbsGrams   int                `bson:"carbsGrams" json:"carbsGrams"`
	FatsGrams    int                `bson:"fatsGrams" json:"fatsGrams"`
	Ingredients  string             `bson:"ingredients" json:"ingredients"`
	Instructions string             `bson:"instructions,omitempty" json:"instructions,omitempty"`
	OrderIndex   int                `bson:"orderIndex" json:"orderIndex"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
