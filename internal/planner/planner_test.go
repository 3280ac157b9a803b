package planner

import (
	"reflect"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"
)

func referenceClient(goal domain.FitnessGoal) ClientData {
	return ClientData{
		Height:        180,
		Weight:        80,
		FitnessGoal:   goal,
		ActivityLevel: domain.ActivityModerate,
		Gender:        domain.GenderMale,
	}
}

func TestBuildMealPlanShapeForEveryGoal(t *testing.T) {
	t.Parallel()

	wantTypes := []domain.MealType{domain.MealBreakfast, domain.MealSnack, domain.MealLunch, domain.MealSnack, domain.MealDinner}
	goals := []domain.FitnessGoal{domain.GoalLoseWeight, domain.GoalGainMuscle, domain.GoalMaintain, domain.GoalImproveEndurance, "bulk", ""}
	for _, goal := range goals {
		draft := BuildMealPlan(referenceClient(goal))
		if len(draft.Meals) != 5 {
			t.Fatalf("goal %q: meals got=%d want=5", goal, len(draft.Meals))
		}
		for i, m := range draft.Meals {
			if m.OrderIndex != i {
				t.Fatalf("goal %q meal %d: order got=%d want=%d", goal, i, m.OrderIndex, i)
			}
			if m.MealType != wantTypes[i] {
				t.Fatalf("goal %q meal %d: type got=%q want=%q", goal, i, m.MealType, wantTypes[i])
			}
		}
		if !draft.Plan.AIGenerated {
			t.Fatalf("goal %q: plan not marked generated", goal)
		}
	}
}

func TestMealPlanNaming(t *testing.T) {
	t.Parallel()

	cases := map[domain.FitnessGoal]string{
		domain.GoalLoseWeight:       "Plano de Emagrecimento",
		domain.GoalGainMuscle:       "Plano de Ganho de Massa",
		domain.GoalMaintain:         "Plano Balanceado",
		domain.GoalImproveEndurance: "Plano Balanceado",
		"whatever":                  "Plano Balanceado",
	}
	for goal, want := range cases {
		if got := BuildMealPlan(referenceClient(goal)).Plan.Name; got != want {
			t.Fatalf("goal %q: got=%q want=%q", goal, got, want)
		}
	}
}

func TestBuildMealPlanReferenceNumbers(t *testing.T) {
	t.Parallel()

	draft := BuildMealPlan(referenceClient(domain.GoalMaintain))
	p := draft.Plan
	if p.DailyCalories != 2759 || p.ProteinGrams != 160 || p.FatsGrams != 77 || p.CarbsGrams != 357 {
		t.Fatalf("totals: got=%d/%d/%d/%d want=2759/160/357/77", p.DailyCalories, p.ProteinGrams, p.CarbsGrams, p.FatsGrams)
	}
	if want := "Plano alimentar personalizado com 2759 calorias diárias"; p.Description != want {
		t.Fatalf("description: got=%q want=%q", p.Description, want)
	}

	breakfast := draft.Meals[0]
	// 2759*0.25=689.75, 160*0.25=40, 357*0.3=107.1, 77*0.25=19.25
	if breakfast.Calories != 690 || breakfast.ProteinGrams != 40 || breakfast.CarbsGrams != 107 || breakfast.FatsGrams != 19 {
		t.Fatalf("breakfast: got=%d kcal %d/%d/%d", breakfast.Calories, breakfast.ProteinGrams, breakfast.CarbsGrams, breakfast.FatsGrams)
	}
	lunch := draft.Meals[2]
	// 2759*0.35=965.65, 160*0.35=56, 357*0.35=124.95, 77*0.3=23.1
	if lunch.Calories != 966 || lunch.ProteinGrams != 56 || lunch.CarbsGrams != 125 || lunch.FatsGrams != 23 {
		t.Fatalf("lunch: got=%d kcal %d/%d/%d", lunch.Calories, lunch.ProteinGrams, lunch.CarbsGrams, lunch.FatsGrams)
	}
}

func TestBuildMealPlanIsDeterministic(t *testing.T) {
	t.Parallel()

	data := referenceClient(domain.GoalGainMuscle)
	a, b := BuildMealPlan(data), BuildMealPlan(data)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two builds differ:\n%+v\n%+v", a, b)
	}
}

func daysOf(draft WorkoutDraft) map[time.Weekday]int {
	days := map[time.Weekday]int{}
	for _, e := range draft.Exercises {
		days[e.DayOfWeek]++
	}
	return days
}

func TestBuildWorkoutGainMuscle(t *testing.T) {
	t.Parallel()

	draft := BuildWorkout(referenceClient(domain.GoalGainMuscle))
	if len(draft.Exercises) != 16 {
		t.Fatalf("exercises: got=%d want=16", len(draft.Exercises))
	}
	want := map[time.Weekday]int{time.Monday: 4, time.Tuesday: 4, time.Thursday: 4, time.Friday: 4}
	if got := daysOf(draft); !reflect.DeepEqual(got, want) {
		t.Fatalf("days: got=%v want=%v", got, want)
	}
	if draft.Workout.Name != "Plano de Hipertrofia" {
		t.Fatalf("name: got=%q", draft.Workout.Name)
	}
}

func TestBuildWorkoutUnknownGoalFallsBackToMaintain(t *testing.T) {
	t.Parallel()

	draft := BuildWorkout(referenceClient("become_astronaut"))
	if len(draft.Exercises) != 12 {
		t.Fatalf("exercises: got=%d want=12", len(draft.Exercises))
	}
	if got := len(daysOf(draft)); got != 3 {
		t.Fatalf("days: got=%d want=3", got)
	}
	if draft.Workout.Name != "Plano de Manutenção" {
		t.Fatalf("name: got=%q", draft.Workout.Name)
	}
	if draft.Workout.Goal != "become_astronaut" {
		t.Fatalf("goal should be kept verbatim, got=%q", draft.Workout.Goal)
	}
}

func TestBuildWorkoutTemplatesAreWellFormed(t *testing.T) {
	t.Parallel()

	counts := map[domain.FitnessGoal]int{
		domain.GoalLoseWeight:       12,
		domain.GoalGainMuscle:       16,
		domain.GoalMaintain:         12,
		domain.GoalImproveEndurance: 13,
	}
	for goal, want := range counts {
		draft := BuildWorkout(referenceClient(goal))
		if len(draft.Exercises) != want {
			t.Fatalf("goal %q: exercises got=%d want=%d", goal, len(draft.Exercises), want)
		}
		if draft.Workout.DurationWeeks != 12 || !draft.Workout.AIGenerated {
			t.Fatalf("goal %q: workout header %+v", goal, draft.Workout)
		}
		days := daysOf(draft)
		if len(days) < 3 || len(days) > 5 {
			t.Fatalf("goal %q: %d training days", goal, len(days))
		}
		seen := map[[2]int]bool{}
		for _, e := range draft.Exercises {
			key := [2]int{int(e.DayOfWeek), e.OrderIndex}
			if seen[key] {
				t.Fatalf("goal %q: duplicate order %d on day %d", goal, e.OrderIndex, e.DayOfWeek)
			}
			seen[key] = true
			if e.Sets < 1 {
				t.Fatalf("goal %q: %q has %d sets", goal, e.ExerciseName, e.Sets)
			}
			if err := e.Reps.Validate(); err != nil {
				t.Fatalf("goal %q: %q reps: %v", goal, e.ExerciseName, err)
			}
		}
	}
}

func TestBuildWorkoutEnduranceRepSchemes(t *testing.T) {
	t.Parallel()

	draft := BuildWorkout(referenceClient(domain.GoalImproveEndurance))
	var swim, plank domain.Exercise
	for _, e := range draft.Exercises {
		switch e.ExerciseName {
		case "Natação":
			swim = e
		case "Prancha Lateral":
			plank = e
		}
	}
	if swim.DayOfWeek != time.Tuesday || swim.Reps.String() != "45 min" {
		t.Fatalf("swim: got day=%d reps=%q", swim.DayOfWeek, swim.Reps)
	}
	if plank.Reps.String() != "45 seg cada" {
		t.Fatalf("side plank reps: got=%q", plank.Reps)
	}
}

func TestFromClientCopiesProfile(t *testing.T) {
	t.Parallel()

	goal := 72.0
	c := &domain.Client{Height: 170, CurrentWeight: 75, GoalWeight: &goal, FitnessGoal: domain.GoalLoseWeight, ActivityLevel: domain.ActivityLight, Gender: domain.GenderFemale, DietaryRestrictions: "lactose"}
	d := FromClient(c)
	if d.Weight != 75 || d.Height != 170 || d.GoalWeight == nil || *d.GoalWeight != 72 || d.FitnessGoal != domain.GoalLoseWeight {
		t.Fatalf("FromClient: got=%+v", d)
	}
}
