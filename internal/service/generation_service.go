package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"alcyxob/fitcoach/internal/lock"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/planner"
	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidClientData = errors.New("invalid client data")
)

const cleanupTimeout = 5 * time.Second

// GenerationInput identifies who a plan is for and carries the profile to build it from.
type GenerationInput struct {
	ClientID  primitive.ObjectID
	TrainerID primitive.ObjectID
	Data      planner.ClientData
}

// GenerationService turns a client profile into a stored, active plan. Each
// call inserts new rows; the client's previous active plan is deactivated in
// the same step that activates the new one.
type GenerationService interface {
	GenerateMealPlan(ctx context.Context, in GenerationInput) (*MealPlanWithMeals, error)
	GenerateWorkout(ctx context.Context, in GenerationInput) (*WorkoutWithExercises, error)
}

type generationService struct {
	clientRepo   repository.ClientRepository
	mealPlanRepo repository.MealPlanRepository
	mealRepo     repository.MealRepository
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	tx           repository.Transactor
	locker       lock.Locker
	log          *logger.Logger
}

func NewGenerationService(
	clientRepo repository.ClientRepository,
	mealPlanRepo repository.MealPlanRepository,
	mealRepo repository.MealRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	tx repository.Transactor,
	locker lock.Locker,
	log *logger.Logger,
) GenerationService {
	return &generationService{
		clientRepo:   clientRepo,
		mealPlanRepo: mealPlanRepo,
		mealRepo:     mealRepo,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		tx:           tx,
		locker:       locker,
		log:          log.With("service", "GenerationService"),
	}
}

func validateGenerationInput(in GenerationInput) error {
	if in.ClientID.IsZero() || in.TrainerID.IsZero() {
		return fmt.Errorf("%w: clientId and trainerId are required", ErrInvalidClientData)
	}
	if !(in.Data.Weight > 0) || math.IsInf(in.Data.Weight, 0) {
		return fmt.Errorf("%w: weight must be a positive number", ErrInvalidClientData)
	}
	if !(in.Data.Height > 0) || math.IsInf(in.Data.Height, 0) {
		return fmt.Errorf("%w: height must be a positive number", ErrInvalidClientData)
	}
	return nil
}

func (s *generationService) GenerateMealPlan(ctx context.Context, in GenerationInput) (*MealPlanWithMeals, error) {
	if err := validateGenerationInput(in); err != nil {
		return nil, err
	}
	if _, err := managedClient(ctx, s.clientRepo, in.TrainerID, in.ClientID); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, "meal-plan:"+in.ClientID.Hex())
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft := planner.BuildMealPlan(in.Data)
	plan := draft.Plan
	plan.ClientID = in.ClientID
	plan.TrainerID = in.TrainerID
	plan.IsActive = false // activated only once its meals are stored
	meals := draft.Meals

	var planID primitive.ObjectID
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := s.mealPlanRepo.Create(ctx, &plan)
		if err != nil {
			return fmt.Errorf("insert meal plan: %w", err)
		}
		planID = id

		for i := range meals {
			meals[i].MealPlanID = id
		}
		if _, err := s.mealRepo.CreateMany(ctx, meals); err != nil {
			return fmt.Errorf("insert meals: %w", err)
		}
		if err := s.mealPlanRepo.ActivateExclusive(ctx, in.ClientID, id); err != nil {
			return fmt.Errorf("activate meal plan: %w", err)
		}
		return nil
	})
	if err != nil {
		if !planID.IsZero() {
			s.discard(ctx, "meal plan", planID, s.mealPlanRepo.Delete)
		}
		return nil, err
	}

	plan.IsActive = true
	s.log.Info("Generated meal plan", "client_id", in.ClientID.Hex(), "plan_id", planID.Hex(), "daily_calories", plan.DailyCalories)
	return &MealPlanWithMeals{MealPlan: plan, Meals: meals}, nil
}

func (s *generationService) GenerateWorkout(ctx context.Context, in GenerationInput) (*WorkoutWithExercises, error) {
	if err := validateGenerationInput(in); err != nil {
		return nil, err
	}
	if _, err := managedClient(ctx, s.clientRepo, in.TrainerID, in.ClientID); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, "workout:"+in.ClientID.Hex())
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft := planner.BuildWorkout(in.Data)
	workout := draft.Workout
	workout.ClientID = in.ClientID
	workout.TrainerID = in.TrainerID
	workout.IsActive = false
	exercises := draft.Exercises

	var workoutID primitive.ObjectID
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := s.workoutRepo.Create(ctx, &workout)
		if err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}
		workoutID = id

		for i := range exercises {
			exercises[i].WorkoutID = id
		}
		if _, err := s.exerciseRepo.CreateMany(ctx, exercises); err != nil {
			return fmt.Errorf("insert exercises: %w", err)
		}
		if err := s.workoutRepo.ActivateExclusive(ctx, in.ClientID, id); err != nil {
			return fmt.Errorf("activate workout: %w", err)
		}
		return nil
	})
	if err != nil {
		if !workoutID.IsZero() {
			s.discard(ctx, "workout", workoutID, s.workoutRepo.Delete)
		}
		return nil, err
	}

	workout.IsActive = true
	s.log.Info("Generated workout", "client_id", in.ClientID.Hex(), "workout_id", workoutID.Hex(), "goal", workout.Goal)
	return &WorkoutWithExercises{Workout: workout, Exercises: exercises}, nil
}

// discard deletes a half-written parent and its children. When the write ran
// in a real transaction the rows are already gone and the delete reports ErrNotFound.
func (s *generationService) discard(ctx context.Context, kind string, id primitive.ObjectID, del func(context.Context, primitive.ObjectID) error) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	err := del(cleanupCtx, id)
	switch {
	case err == nil:
		s.log.Warn("Removed partially generated "+kind, "id", id.Hex())
	case errors.Is(err, repository.ErrNotFound):
	default:
		s.log.Error("Failed to remove partially generated "+kind, "id", id.Hex(), "error", err)
	}
}
