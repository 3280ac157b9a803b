package service

import (
	"context"
	"errors"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealPlanWithMeals is a plan header with its meals ordered by OrderIndex.
type MealPlanWithMeals struct {
	domain.MealPlan
	Meals []domain.Meal `json:"meals"`
}

// WorkoutWithExercises is a workout header with its exercises ordered by day, then OrderIndex.
type WorkoutWithExercises struct {
	domain.Workout
	Exercises []domain.Exercise `json:"exercises"`
}

// activeMealPlan returns (nil, nil) when the client has no active plan.
func activeMealPlan(ctx context.Context, plans repository.MealPlanRepository, meals repository.MealRepository, clientID primitive.ObjectID) (*MealPlanWithMeals, error) {
	plan, err := plans.FindActiveForClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	items, err := meals.GetByPlanID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	return &MealPlanWithMeals{MealPlan: *plan, Meals: items}, nil
}

// activeWorkout returns (nil, nil) when the client has no active workout.
func activeWorkout(ctx context.Context, workouts repository.WorkoutRepository, exercises repository.ExerciseRepository, clientID primitive.ObjectID) (*WorkoutWithExercises, error) {
	w, err := workouts.FindActiveForClient(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	items, err := exercises.GetByWorkoutID(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	return &WorkoutWithExercises{Workout: *w, Exercises: items}, nil
}

// managedClient loads a client and checks it belongs to trainerID.
func managedClient(ctx context.Context, clients repository.ClientRepository, trainerID, clientID primitive.ObjectID) (*domain.Client, error) {
	client, err := clients.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.TrainerID != trainerID {
		return nil, ErrClientNotManaged
	}
	return client, nil
}
