package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressPhotoCollectionName = "progress_photos"

// mongoProgressPhotoRepository implements repository.ProgressPhotoRepository
type mongoProgressPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressPhotoRepository creates a repository for photo metadata.
func NewMongoProgressPhotoRepository(db *mongo.Database) repository.ProgressPhotoRepository {
	return &mongoProgressPhotoRepository{
		collection: db.Collection(progressPhotoCollectionName),
	}
}

// Create inserts photo metadata once the object is in the bucket.
func (r *mongoProgressPhotoRepository) Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error) {
	if photo.MeasurementID == primitive.NilObjectID ||
		photo.ClientID == primitive.NilObjectID ||
		photo.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("photo requires measurementId, clientId, and s3ObjectKey")
	}

	photo.ID = primitive.NewObjectID()
	photo.UploadedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// ListByMeasurement returns a measurement's photos in upload order.
func (r *mongoProgressPhotoRepository) ListByMeasurement(ctx context.Context, measurementID primitive.ObjectID) ([]domain.ProgressPhoto, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"measurementId": measurementID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	photos := []domain.ProgressPhoto{}
	if err = cursor.All(ctx, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// EnsureProgressPhotoIndexes creates necessary indexes for the progress_photos collection.
func EnsureProgressPhotoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "measurementId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "clientId", Value: 1}},
		},
		{
			// The same object must not be confirmed twice.
			Keys:    bson.D{{Key: "s3ObjectKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
