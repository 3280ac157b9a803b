package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is a client's multi-week training program. Exercises point back to it.
type Workout struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Goal          FitnessGoal        `bson:"goal" json:"goal"` // stored as requested, even if unrecognized
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	AIGenerated   bool               `bson:"aiGenerated" json:"aiGenerated"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
