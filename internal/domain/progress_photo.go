package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressPhoto stores metadata about a photo attached to a Measurement.
// The file itself lives in object storage.
type ProgressPhoto struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MeasurementID primitive.ObjectID `bson:"measurementId" json:"measurementId"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID     primitive.ObjectID `bson:"trainerId" json:"trainerId"` // denormalized
	S3ObjectKey   string             `bson:"s3ObjectKey" json:"-"`
	FileName      string             `bson:"fileName" json:"fileName"`
	ContentType   string             `bson:"contentType" json:"contentType"`
	Size          int64              `bson:"size" json:"size"`
	UploadedAt    time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
