package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurement is one body check-in. Weight is kg, circumferences are cm.
type Measurement struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID          primitive.ObjectID `bson:"clientId" json:"clientId"`
	Weight            float64            `bson:"weight" json:"weight"`
	BodyFatPercentage *float64           `bson:"bodyFatPercentage,omitempty" json:"bodyFatPercentage,omitempty"`
	Chest             *float64           `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist             *float64           `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips              *float64           `bson:"hips,omitempty" json:"hips,omitempty"`
	LeftArm           *float64           `bson:"leftArm,omitempty" json:"leftArm,omitempty"`
	RightArm          *float64           `bson:"rightArm,omitempty" json:"rightArm,omitempty"`
	LeftThigh         *float64           `bson:"leftThigh,omitempty" json:"leftThigh,omitempty"`
	RightThigh        *float64           `bson:"rightThigh,omitempty" json:"rightThigh,omitempty"`
	LeftCalf          *float64           `bson:"leftCalf,omitempty" json:"leftCalf,omitempty"`
	RightCalf         *float64           `bson:"rightCalf,omitempty" json:"rightCalf,omitempty"`
	Notes             string             `bson:"notes,omitempty" json:"notes,omitempty"`
	MeasuredAt        time.Time          `bson:"measuredAt" json:"measuredAt"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
