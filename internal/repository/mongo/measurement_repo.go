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

const measurementCollectionName = "measurements"

type mongoMeasurementRepository struct {
	collection *mongo.Collection
}

func NewMongoMeasurementRepository(db *mongo.Database) repository.MeasurementRepository {
	return &mongoMeasurementRepository{
		collection: db.Collection(measurementCollectionName),
	}
}

// Create inserts a measurement. MeasuredAt defaults to the insert time.
func (r *mongoMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) (primitive.ObjectID, error) {
	if m.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("measurement requires clientId")
	}
	m.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	m.CreatedAt = now
	if m.MeasuredAt.IsZero() {
		m.MeasuredAt = now
	}

	result, err := r.collection.InsertOne(ctx, m)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoMeasurementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Measurement, error) {
	var m domain.Measurement
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *mongoMeasurementRepository) ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "measuredAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []domain.Measurement{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func EnsureMeasurementIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "clientId", Value: 1}, {Key: "measuredAt", Value: 1}},
	})
	return err
}
