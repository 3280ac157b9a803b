package repository

import (
	"context"

	"alcyxob/fitcoach/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
	ErrDuplicate    = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn so that every repository call made with the ctx it
// receives commits or aborts together. Implementations without transaction
// support just call fn.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository stores login identities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ClientRepository stores trainer-managed client profiles.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Client, error)
	ListByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Client, error) // newest first
}

type MeasurementRepository interface {
	Create(ctx context.Context, m *domain.Measurement) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Measurement, error)
	ListByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error) // oldest first by measuredAt
}

type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	ListByMeasurement(ctx context.Context, measurementID primitive.ObjectID) ([]domain.ProgressPhoto, error)
}

// MealPlanRepository stores meal plan headers. At most one plan per client is active.
type MealPlanRepository interface {
	Create(ctx context.Context, plan *domain.MealPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MealPlan, error)
	FindActiveForClient(ctx context.Context, clientID primitive.ObjectID) (*domain.MealPlan, error)
	// ActivateExclusive deactivates every other active plan of the client, then activates planID.
	ActivateExclusive(ctx context.Context, clientID, planID primitive.ObjectID) error
	Update(ctx context.Context, plan *domain.MealPlan) error
	// Delete removes the plan and its meals.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MealRepository interface {
	CreateMany(ctx context.Context, meals []domain.Meal) ([]primitive.ObjectID, error)
	Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error)
	// Update matches on both ID and MealPlanID so a meal can't be moved between plans.
	Update(ctx context.Context, meal *domain.Meal) error
	DeleteMany(ctx context.Context, planID primitive.ObjectID, ids []primitive.ObjectID) error
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Meal, error) // by orderIndex
}

// WorkoutRepository stores workout headers. At most one workout per client is active.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	FindActiveForClient(ctx context.Context, clientID primitive.ObjectID) (*domain.Workout, error)
	ActivateExclusive(ctx context.Context, clientID, workoutID primitive.ObjectID) error
	Update(ctx context.Context, workout *domain.Workout) error
	// Delete removes the workout and its exercises.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ExerciseRepository interface {
	CreateMany(ctx context.Context, exercises []domain.Exercise) ([]primitive.ObjectID, error)
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	DeleteMany(ctx context.Context, workoutID primitive.ObjectID, ids []primitive.ObjectID) error
	GetByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) ([]domain.Exercise, error) // by day, then orderIndex
}
