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

const clientCollectionName = "clients"

type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a client profile repository.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.TrainerID == primitive.NilObjectID || client.FullName == "" {
		return primitive.NilObjectID, errors.New("client requires trainerId and fullName")
	}
	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoClientRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *mongoClientRepository) findOne(ctx context.Context, filter bson.M) (*domain.Client, error) {
	var client domain.Client
	if err := r.collection.FindOne(ctx, filter).Decode(&client); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// ListByTrainer returns the trainer's clients, newest first.
func (r *mongoClientRepository) ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"trainerId": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []domain.Client{}
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			// Profiles created without a login have no userId.
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
