// internal/repository/mongo/workout_repo.go
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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
	exercises  *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
		exercises:  db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.TrainerID == primitive.NilObjectID || workout.ClientID == primitive.NilObjectID || workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout requires trainerId, clientId, and name")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoWorkoutRepository) FindActiveForClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Workout, error) {
	return r.findOne(ctx, bson.M{"clientId": clientID, "isActive": true})
}

func (r *mongoWorkoutRepository) findOne(ctx context.Context, filter bson.M) (*domain.Workout, error) {
	var workout domain.Workout
	if err := r.collection.FindOne(ctx, filter).Decode(&workout); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

func (r *mongoWorkoutRepository) ActivateExclusive(ctx context.Context, clientID, workoutID primitive.ObjectID) error {
	return activateExclusive(ctx, r.collection, clientID, workoutID)
}

func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}

	// ClientID and TrainerID are fixed once the workout exists.
	workout.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"name":          workout.Name,
			"description":   workout.Description,
			"goal":          workout.Goal,
			"durationWeeks": workout.DurationWeeks,
			"updatedAt":     workout.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the workout together with its exercises.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.exercises.DeleteMany(ctx, bson.M{"workoutId": id}); err != nil {
		return err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		singleActiveIndex(),
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
