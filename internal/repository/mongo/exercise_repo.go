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

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// CreateMany inserts a workout's exercises in one round trip and fills in their IDs.
func (r *mongoExerciseRepository) CreateMany(ctx context.Context, exercises []domain.Exercise) ([]primitive.ObjectID, error) {
	if len(exercises) == 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(exercises))
	ids := make([]primitive.ObjectID, len(exercises))
	for i := range exercises {
		if exercises[i].WorkoutID == primitive.NilObjectID {
			return nil, errors.New("exercise requires workoutId")
		}
		exercises[i].ID = primitive.NewObjectID()
		exercises[i].CreatedAt = now
		docs[i] = exercises[i]
		ids[i] = exercises[i].ID
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// Create inserts a single exercise into an existing workout.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.WorkoutID == primitive.NilObjectID || exercise.ExerciseName == "" {
		return primitive.NilObjectID, errors.New("exercise name and workout ID are required")
	}

	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedObjectID(result)
}

// Update modifies an existing exercise. The filter includes the workout so an
// exercise can only be edited through the workout that owns it.
func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("exercise ID is required for update")
	}

	filter := bson.M{"_id": exercise.ID, "workoutId": exercise.WorkoutID}
	update := bson.M{
		"$set": bson.M{
			"dayOfWeek":    exercise.DayOfWeek,
			"exerciseName": exercise.ExerciseName,
			"sets":         exercise.Sets,
			"reps":         exercise.Reps,
			"restSeconds":  exercise.RestSeconds,
			"notes":        exercise.Notes,
			"orderIndex":   exercise.OrderIndex,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteMany removes the listed exercises of one workout.
func (r *mongoExerciseRepository) DeleteMany(ctx context.Context, workoutID primitive.ObjectID, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"workoutId": workoutID, "_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	if result.DeletedCount != int64(len(ids)) {
		return repository.ErrDeleteFailed
	}
	return nil
}

// GetByWorkoutID lists exercises ordered by day, then position within the day.
func (r *mongoExerciseRepository) GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "dayOfWeek", Value: 1}, {Key: "orderIndex", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"workoutId": workoutID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "workoutId", Value: 1}, {Key: "dayOfWeek", Value: 1}, {Key: "orderIndex", Value: 1}},
	})
	return err
}
