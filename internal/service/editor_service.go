package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/logger"
	"alcyxob/fitcoach/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrMealPlanNotFound = errors.New("meal plan not found")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrPlanAccessDenied = errors.New("access denied to modify this plan")
	ErrInvalidPlanEdit  = errors.New("invalid plan edit")
)

// MealPlanEdit is the full pending state of a meal plan editor. Meals with a
// zero ID are inserted; the rest update the meal with that ID. Meals of the
// plan that appear in neither list are left untouched.
type MealPlanEdit struct {
	Name           string
	Description    string
	DailyCalories  int
	ProteinGrams   int
	CarbsGrams     int
	FatsGrams      int
	Meals          []domain.Meal
	DeletedMealIDs []primitive.ObjectID
	// RecalculateTotals replaces the four plan totals with the sum of the resulting meals.
	RecalculateTotals bool
}

// WorkoutEdit is the full pending state of a workout editor.
type WorkoutEdit struct {
	Name               string
	Description        string
	Goal               domain.FitnessGoal
	DurationWeeks      int
	Exercises          []domain.Exercise
	DeletedExerciseIDs []primitive.ObjectID
}

// EditorService lets a trainer change a generated plan after the fact.
// There is no optimistic concurrency: the last save wins.
type EditorService interface {
	// GetActiveMealPlan returns (nil, nil) when the client has no active plan yet.
	GetActiveMealPlan(ctx context.Context, trainerID, clientID primitive.ObjectID) (*MealPlanWithMeals, error)
	SaveMealPlan(ctx context.Context, trainerID, planID primitive.ObjectID, edit MealPlanEdit) (*MealPlanWithMeals, error)
	// GetActiveWorkout returns (nil, nil) when the client has no active workout yet.
	GetActiveWorkout(ctx context.Context, trainerID, clientID primitive.ObjectID) (*WorkoutWithExercises, error)
	SaveWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, edit WorkoutEdit) (*WorkoutWithExercises, error)
}

type editorService struct {
	clientRepo   repository.ClientRepository
	mealPlanRepo repository.MealPlanRepository
	mealRepo     repository.MealRepository
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	tx           repository.Transactor
	log          *logger.Logger
}

func NewEditorService(
	clientRepo repository.ClientRepository,
	mealPlanRepo repository.MealPlanRepository,
	mealRepo repository.MealRepository,
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	tx repository.Transactor,
	log *logger.Logger,
) EditorService {
	return &editorService{
		clientRepo:   clientRepo,
		mealPlanRepo: mealPlanRepo,
		mealRepo:     mealRepo,
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		tx:           tx,
		log:          log.With("service", "EditorService"),
	}
}

func (s *editorService) GetActiveMealPlan(ctx context.Context, trainerID, clientID primitive.ObjectID) (*MealPlanWithMeals, error) {
	if _, err := managedClient(ctx, s.clientRepo, trainerID, clientID); err != nil {
		return nil, err
	}
	return activeMealPlan(ctx, s.mealPlanRepo, s.mealRepo, clientID)
}

func (s *editorService) GetActiveWorkout(ctx context.Context, trainerID, clientID primitive.ObjectID) (*WorkoutWithExercises, error) {
	if _, err := managedClient(ctx, s.clientRepo, trainerID, clientID); err != nil {
		return nil, err
	}
	return activeWorkout(ctx, s.workoutRepo, s.exerciseRepo, clientID)
}

// === Meal plans ===

func (s *editorService) SaveMealPlan(ctx context.Context, trainerID, planID primitive.ObjectID, edit MealPlanEdit) (*MealPlanWithMeals, error) {
	plan, err := s.mealPlanRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMealPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}

	current, err := s.mealRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	final, err := resultingMeals(current, edit)
	if err != nil {
		return nil, err
	}

	plan.Name = strings.TrimSpace(edit.Name)
	plan.Description = edit.Description
	plan.DailyCalories, plan.ProteinGrams, plan.CarbsGrams, plan.FatsGrams =
		edit.DailyCalories, edit.ProteinGrams, edit.CarbsGrams, edit.FatsGrams
	if edit.RecalculateTotals {
		plan.DailyCalories, plan.ProteinGrams, plan.CarbsGrams, plan.FatsGrams = 0, 0, 0, 0
		for _, m := range final {
			plan.DailyCalories += m.Calories
			plan.ProteinGrams += m.ProteinGrams
			plan.CarbsGrams += m.CarbsGrams
			plan.FatsGrams += m.FatsGrams
		}
	}
	if plan.Name == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrInvalidPlanEdit)
	}
	if plan.DailyCalories < 0 || plan.ProteinGrams < 0 || plan.CarbsGrams < 0 || plan.FatsGrams < 0 {
		return nil, fmt.Errorf("%w: plan totals cannot be negative", ErrInvalidPlanEdit)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.mealRepo.DeleteMany(ctx, planID, edit.DeletedMealIDs); err != nil {
			return fmt.Errorf("delete meals: %w", err)
		}
		for i := range edit.Meals {
			m := edit.Meals[i]
			m.MealPlanID = planID
			if m.ID.IsZero() {
				if _, err := s.mealRepo.Create(ctx, &m); err != nil {
					return fmt.Errorf("insert meal: %w", err)
				}
				continue
			}
			if err := s.mealRepo.Update(ctx, &m); err != nil {
				return fmt.Errorf("update meal %s: %w", m.ID.Hex(), err)
			}
		}
		if err := s.mealPlanRepo.Update(ctx, plan); err != nil {
			return fmt.Errorf("update meal plan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	meals, err := s.mealRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, err
	}
	s.log.Info("Saved meal plan", "plan_id", planID.Hex(), "meals", len(meals), "deleted", len(edit.DeletedMealIDs))
	return &MealPlanWithMeals{MealPlan: *plan, Meals: meals}, nil
}

// resultingMeals applies edit to current in memory and validates the outcome.
func resultingMeals(current []domain.Meal, edit MealPlanEdit) ([]domain.Meal, error) {
	byID := make(map[primitive.ObjectID]domain.Meal, len(current))
	for _, m := range current {
		byID[m.ID] = m
	}

	for _, id := range edit.DeletedMealIDs {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: meal %s is not part of this plan", ErrInvalidPlanEdit, id.Hex())
		}
		delete(byID, id)
	}

	var added []domain.Meal
	seen := make(map[primitive.ObjectID]bool, len(edit.Meals))
	for _, m := range edit.Meals {
		if err := validateMeal(m); err != nil {
			return nil, err
		}
		if m.ID.IsZero() {
			added = append(added, m)
			continue
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("%w: meal %s listed twice", ErrInvalidPlanEdit, m.ID.Hex())
		}
		seen[m.ID] = true
		if _, ok := byID[m.ID]; !ok {
			return nil, fmt.Errorf("%w: meal %s is not part of this plan or is being deleted", ErrInvalidPlanEdit, m.ID.Hex())
		}
		byID[m.ID] = m
	}

	final := make([]domain.Meal, 0, len(byID)+len(added))
	for _, m := range byID {
		final = append(final, m)
	}
	final = append(final, added...)

	orders := make(map[int]bool, len(final))
	for _, m := range final {
		if orders[m.OrderIndex] {
			return nil, fmt.Errorf("%w: order index %d used by more than one meal", ErrInvalidPlanEdit, m.OrderIndex)
		}
		orders[m.OrderIndex] = true
	}
	return final, nil
}

func validateMeal(m domain.Meal) error {
	switch {
	case !m.MealType.Valid():
		return fmt.Errorf("%w: unknown meal type %q", ErrInvalidPlanEdit, m.MealType)
	case strings.TrimSpace(m.Name) == "":
		return fmt.Errorf("%w: meal name is required", ErrInvalidPlanEdit)
	case m.Calories < 0 || m.ProteinGrams < 0 || m.CarbsGrams < 0 || m.FatsGrams < 0:
		return fmt.Errorf("%w: meal %q has negative calories or macros", ErrInvalidPlanEdit, m.Name)
	case m.OrderIndex < 0:
		return fmt.Errorf("%w: order index cannot be negative", ErrInvalidPlanEdit)
	}
	return nil
}

// === Workouts ===

func (s *editorService) SaveWorkout(ctx context.Context, trainerID, workoutID primitive.ObjectID, edit WorkoutEdit) (*WorkoutWithExercises, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if workout.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}

	workout.Name = strings.TrimSpace(edit.Name)
	workout.Description = edit.Description
	if edit.Goal != "" {
		workout.Goal = edit.Goal
	}
	if edit.DurationWeeks != 0 {
		workout.DurationWeeks = edit.DurationWeeks
	}
	if workout.Name == "" {
		return nil, fmt.Errorf("%w: workout name is required", ErrInvalidPlanEdit)
	}
	if workout.DurationWeeks < 1 {
		return nil, fmt.Errorf("%w: duration must be at least one week", ErrInvalidPlanEdit)
	}

	current, err := s.exerciseRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if err := checkResultingExercises(current, edit); err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.exerciseRepo.DeleteMany(ctx, workoutID, edit.DeletedExerciseIDs); err != nil {
			return fmt.Errorf("delete exercises: %w", err)
		}
		for i := range edit.Exercises {
			e := edit.Exercises[i]
			e.WorkoutID = workoutID
			if e.ID.IsZero() {
				if _, err := s.exerciseRepo.Create(ctx, &e); err != nil {
					return fmt.Errorf("insert exercise: %w", err)
				}
				continue
			}
			if err := s.exerciseRepo.Update(ctx, &e); err != nil {
				return fmt.Errorf("update exercise %s: %w", e.ID.Hex(), err)
			}
		}
		if err := s.workoutRepo.Update(ctx, workout); err != nil {
			return fmt.Errorf("update workout: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	exercises, err := s.exerciseRepo.GetByWorkoutID(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	s.log.Info("Saved workout", "workout_id", workoutID.Hex(), "exercises", len(exercises), "deleted", len(edit.DeletedExerciseIDs))
	return &WorkoutWithExercises{Workout: *workout, Exercises: exercises}, nil
}

type dayOrder struct {
	day   time.Weekday
	order int
}

func checkResultingExercises(current []domain.Exercise, edit WorkoutEdit) error {
	byID := make(map[primitive.ObjectID]domain.Exercise, len(current))
	for _, e := range current {
		byID[e.ID] = e
	}

	for _, id := range edit.DeletedExerciseIDs {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("%w: exercise %s is not part of this workout", ErrInvalidPlanEdit, id.Hex())
		}
		delete(byID, id)
	}

	var added []domain.Exercise
	seen := make(map[primitive.ObjectID]bool, len(edit.Exercises))
	for _, e := range edit.Exercises {
		if err := validateExercise(e); err != nil {
			return err
		}
		if e.ID.IsZero() {
			added = append(added, e)
			continue
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: exercise %s listed twice", ErrInvalidPlanEdit, e.ID.Hex())
		}
		seen[e.ID] = true
		if _, ok := byID[e.ID]; !ok {
			return fmt.Errorf("%w: exercise %s is not part of this workout or is being deleted", ErrInvalidPlanEdit, e.ID.Hex())
		}
		byID[e.ID] = e
	}

	slots := make(map[dayOrder]bool, len(byID)+len(added))
	check := func(e domain.Exercise) error {
		k := dayOrder{e.DayOfWeek, e.OrderIndex}
		if slots[k] {
			return fmt.Errorf("%w: order index %d used twice on %s", ErrInvalidPlanEdit, e.OrderIndex, e.DayOfWeek)
		}
		slots[k] = true
		return nil
	}
	for _, e := range byID {
		if err := check(e); err != nil {
			return err
		}
	}
	for _, e := range added {
		if err := check(e); err != nil {
			return err
		}
	}
	return nil
}

func validateExercise(e domain.Exercise) error {
	if strings.TrimSpace(e.ExerciseName) == "" {
		return fmt.Errorf("%w: exercise name is required", ErrInvalidPlanEdit)
	}
	if e.DayOfWeek < time.Sunday || e.DayOfWeek > time.Saturday {
		return fmt.Errorf("%w: day of week must be 0-6", ErrInvalidPlanEdit)
	}
	if e.Sets < 1 {
		return fmt.Errorf("%w: %q needs at least one set", ErrInvalidPlanEdit, e.ExerciseName)
	}
	if e.RestSeconds < 0 || e.OrderIndex < 0 {
		return fmt.Errorf("%w: %q has negative rest or order", ErrInvalidPlanEdit, e.ExerciseName)
	}
	if err := e.Reps.Validate(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidPlanEdit, e.ExerciseName, err)
	}
	return nil
}
