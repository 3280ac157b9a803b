package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/planner"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func referenceData() planner.ClientData {
	return planner.ClientData{
		Height:        180,
		Weight:        80,
		FitnessGoal:   domain.GoalMaintain,
		ActivityLevel: domain.ActivityModerate,
		Gender:        domain.GenderMale,
	}
}

func TestGenerateMealPlanStoresActivePlan(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)

	got, err := s.generation.GenerateMealPlan(context.Background(), GenerationInput{
		ClientID: client.ID, TrainerID: trainerID, Data: referenceData(),
	})
	if err != nil {
		t.Fatalf("GenerateMealPlan: %v", err)
	}
	if got.ID.IsZero() || !got.IsActive || !got.AIGenerated {
		t.Fatalf("plan header: got id=%v active=%v ai=%v", got.ID, got.IsActive, got.AIGenerated)
	}
	if got.DailyCalories != 2759 || got.ProteinGrams != 160 || got.CarbsGrams != 357 || got.FatsGrams != 77 {
		t.Fatalf("targets: got=%d/%d/%d/%d want=2759/160/357/77", got.DailyCalories, got.ProteinGrams, got.CarbsGrams, got.FatsGrams)
	}
	if len(got.Meals) != 5 {
		t.Fatalf("meals: got=%d want=5", len(got.Meals))
	}
	for _, m := range got.Meals {
		if m.ID.IsZero() || m.MealPlanID != got.ID {
			t.Fatalf("meal %q not linked: id=%v plan=%v", m.Name, m.ID, m.MealPlanID)
		}
	}

	active := s.db.activePlans(client.ID)
	if len(active) != 1 || active[0].ID != got.ID {
		t.Fatalf("active plans: got=%v want=[%v]", active, got.ID)
	}
}

func TestGenerateTwiceKeepsOnlyLatestActive(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)
	in := GenerationInput{ClientID: client.ID, TrainerID: trainerID, Data: referenceData()}

	first, err := s.generation.GenerateMealPlan(context.Background(), in)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := s.generation.GenerateMealPlan(context.Background(), in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("expected a new plan row, got the same id %v", first.ID)
	}
	if first.DailyCalories != second.DailyCalories || len(first.Meals) != len(second.Meals) {
		t.Fatalf("same input should give the same shape: got=%d/%d want=%d/%d",
			second.DailyCalories, len(second.Meals), first.DailyCalories, len(first.Meals))
	}
	for i := range first.Meals {
		if first.Meals[i].ID == second.Meals[i].ID {
			t.Fatalf("meal %d reused id %v", i, first.Meals[i].ID)
		}
		if first.Meals[i].Calories != second.Meals[i].Calories {
			t.Fatalf("meal %d calories: got=%d want=%d", i, second.Meals[i].Calories, first.Meals[i].Calories)
		}
	}

	active := s.db.activePlans(client.ID)
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("active plans: got=%d want only %v", len(active), second.ID)
	}
	plans, meals, _, _ := s.db.counts()
	if plans != 2 || meals != 10 {
		t.Fatalf("stored rows: got plans=%d meals=%d want=2/10", plans, meals)
	}
}

func TestGenerateWorkoutTwiceSameShapeNewIDs(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)
	in := GenerationInput{ClientID: client.ID, TrainerID: trainerID, Data: referenceData()}

	first, err := s.generation.GenerateWorkout(context.Background(), in)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := s.generation.GenerateWorkout(context.Background(), in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("expected a new workout row, got the same id %v", first.ID)
	}
	if len(first.Exercises) != 12 || len(second.Exercises) != len(first.Exercises) {
		t.Fatalf("exercises: got=%d/%d want=12/12", len(first.Exercises), len(second.Exercises))
	}
	for i := range first.Exercises {
		a, b := first.Exercises[i], second.Exercises[i]
		if a.ID == b.ID {
			t.Fatalf("exercise %d reused id %v", i, a.ID)
		}
		if b.WorkoutID != second.ID {
			t.Fatalf("exercise %d: workout got=%v want=%v", i, b.WorkoutID, second.ID)
		}
		if a.DayOfWeek != b.DayOfWeek || a.ExerciseName != b.ExerciseName || a.Sets != b.Sets ||
			a.Reps != b.Reps || a.RestSeconds != b.RestSeconds || a.OrderIndex != b.OrderIndex {
			t.Fatalf("exercise %d: got=%+v want=%+v", i, b, a)
		}
	}

	active := s.db.activeWorkouts(client.ID)
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("active workouts: got=%d want only %v", len(active), second.ID)
	}
	if _, _, workouts, exercises := s.db.counts(); workouts != 2 || exercises != 24 {
		t.Fatalf("stored rows: got workouts=%d exercises=%d want=2/24", workouts, exercises)
	}
}

func TestConcurrentGenerationLeavesOneActiveWorkout(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)
	in := GenerationInput{ClientID: client.ID, TrainerID: trainerID, Data: referenceData()}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.generation.GenerateWorkout(context.Background(), in); err != nil {
				t.Errorf("GenerateWorkout: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(s.db.activeWorkouts(client.ID)); got != 1 {
		t.Fatalf("active workouts: got=%d want=1", got)
	}
}

func TestGenerateMealPlanRemovesPlanWhenMealsFail(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)
	s.db.failOn("meals.CreateMany", errInjected)

	_, err := s.generation.GenerateMealPlan(context.Background(), GenerationInput{
		ClientID: client.ID, TrainerID: trainerID, Data: referenceData(),
	})
	if !errors.Is(err, errInjected) {
		t.Fatalf("error: got=%v want=%v", err, errInjected)
	}
	if plans, meals, _, _ := s.db.counts(); plans != 0 || meals != 0 {
		t.Fatalf("leftover rows: plans=%d meals=%d", plans, meals)
	}
}

func TestGenerateMealPlanKeepsPreviousActiveOnFailure(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)
	in := GenerationInput{ClientID: client.ID, TrainerID: trainerID, Data: referenceData()}

	prev, err := s.generation.GenerateMealPlan(context.Background(), in)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	s.db.failOn("plans.ActivateExclusive", errInjected)
	if _, err := s.generation.GenerateMealPlan(context.Background(), in); !errors.Is(err, errInjected) {
		t.Fatalf("second error: got=%v want=%v", err, errInjected)
	}

	active := s.db.activePlans(client.ID)
	if len(active) != 1 || active[0].ID != prev.ID {
		t.Fatalf("previous plan should stay active: got=%v", active)
	}
	if plans, meals, _, _ := s.db.counts(); plans != 1 || meals != 5 {
		t.Fatalf("rows after failed regeneration: plans=%d meals=%d want=1/5", plans, meals)
	}
}

func TestGenerateWorkoutRemovesWorkoutWhenExercisesFail(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)
	s.db.failOn("exercises.CreateMany", errInjected)

	_, err := s.generation.GenerateWorkout(context.Background(), GenerationInput{
		ClientID: client.ID, TrainerID: trainerID, Data: referenceData(),
	})
	if !errors.Is(err, errInjected) {
		t.Fatalf("error: got=%v want=%v", err, errInjected)
	}
	if _, _, workouts, exercises := s.db.counts(); workouts != 0 || exercises != 0 {
		t.Fatalf("leftover rows: workouts=%d exercises=%d", workouts, exercises)
	}
}

func TestGenerateWorkoutForGainMuscle(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)
	data := referenceData()
	data.FitnessGoal = domain.GoalGainMuscle

	got, err := s.generation.GenerateWorkout(context.Background(), GenerationInput{
		ClientID: client.ID, TrainerID: trainerID, Data: data,
	})
	if err != nil {
		t.Fatalf("GenerateWorkout: %v", err)
	}
	if len(got.Exercises) != 16 {
		t.Fatalf("exercises: got=%d want=16", len(got.Exercises))
	}
	if got.DurationWeeks != planner.WorkoutDurationWeeks || got.Goal != domain.GoalGainMuscle || !got.IsActive {
		t.Fatalf("header: got weeks=%d goal=%q active=%v", got.DurationWeeks, got.Goal, got.IsActive)
	}
	for _, e := range got.Exercises {
		if e.WorkoutID != got.ID {
			t.Fatalf("exercise %q not linked to workout", e.ExerciseName)
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	t.Parallel()
	s := newTestServices()
	trainerID := primitive.NewObjectID()
	client := s.db.addClient(trainerID)

	noWeight := referenceData()
	noWeight.Weight = 0
	negHeight := referenceData()
	negHeight.Height = -170

	tests := []struct {
		name string
		in   GenerationInput
		want error
	}{
		{"zero weight", GenerationInput{ClientID: client.ID, TrainerID: trainerID, Data: noWeight}, ErrInvalidClientData},
		{"negative height", GenerationInput{ClientID: client.ID, TrainerID: trainerID, Data: negHeight}, ErrInvalidClientData},
		{"missing client id", GenerationInput{TrainerID: trainerID, Data: referenceData()}, ErrInvalidClientData},
		{"unknown client", GenerationInput{ClientID: primitive.NewObjectID(), TrainerID: trainerID, Data: referenceData()}, ErrClientNotFound},
		{"other trainer", GenerationInput{ClientID: client.ID, TrainerID: primitive.NewObjectID(), Data: referenceData()}, ErrClientNotManaged},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.generation.GenerateMealPlan(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("meal plan: got=%v want=%v", err, tt.want)
			}
			if _, err := s.generation.GenerateWorkout(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("workout: got=%v want=%v", err, tt.want)
			}
		})
	}
	if plans, _, workouts, _ := s.db.counts(); plans != 0 || workouts != 0 {
		t.Fatalf("nothing should be stored: plans=%d workouts=%d", plans, workouts)
	}
}
