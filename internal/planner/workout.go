package planner

import (
	"time"

	"alcyxob/fitcoach/internal/domain"
)

// WorkoutDurationWeeks is the program length of every generated workout.
const WorkoutDurationWeeks = 12

// WorkoutDraft is an unsaved workout and its exercises.
type WorkoutDraft struct {
	Workout   domain.Workout
	Exercises []domain.Exercise
}

type exerciseTemplate struct {
	day   time.Weekday
	name  string
	sets  int
	reps  domain.RepScheme
	rest  int // seconds
	notes string
	order int
}

type workoutTemplate struct {
	name        string
	description string
	exercises   []exerciseTemplate
}

var workoutTemplates = map[domain.FitnessGoal]workoutTemplate{
	domain.GoalLoseWeight: {
		name:        "Plano de Emagrecimento",
		description: "Treino focado em queima de gordura com exercícios cardiovasculares e resistência",
		exercises: []exerciseTemplate{
			{time.Monday, "Corrida na Esteira", 1, domain.Minutes(30), 60, "Manter ritmo moderado", 0},
			{time.Monday, "Agachamento Livre", 4, domain.Reps("15-20"), 60, "Foco na técnica", 1},
			{time.Monday, "Flexão de Braço", 3, domain.Reps("12-15"), 45, "", 2},
			{time.Monday, "Prancha Abdominal", 3, domain.Seconds(45), 30, "", 3},
			{time.Wednesday, "Bicicleta Ergométrica", 1, domain.Minutes(40), 60, "Intensidade variável", 0},
			{time.Wednesday, "Leg Press", 4, domain.Reps("15-20"), 60, "", 1},
			{time.Wednesday, "Remada Sentada", 3, domain.Reps("12-15"), 45, "", 2},
			{time.Wednesday, "Burpees", 3, domain.Reps("10-12"), 60, "Exercício completo", 3},
			{time.Friday, "Elíptico", 1, domain.Minutes(35), 60, "", 0},
			{time.Friday, "Afundo Alternado", 3, domain.RepsEachSide("12-15"), 60, "", 1},
			{time.Friday, "Supino Reto", 3, domain.Reps("12-15"), 60, "", 2},
			{time.Friday, "Mountain Climbers", 3, domain.Seconds(30), 45, "Alta intensidade", 3},
		},
	},
	domain.GoalGainMuscle: {
		name:        "Plano de Hipertrofia",
		description: "Treino focado em ganho de massa muscular com cargas progressivas",
		exercises: []exerciseTemplate{
			{time.Monday, "Supino Reto", 4, domain.Reps("8-12"), 90, "Carga progressiva", 0},
			{time.Monday, "Supino Inclinado", 3, domain.Reps("10-12"), 75, "", 1},
			{time.Monday, "Crucifixo", 3, domain.Reps("12-15"), 60, "Alongar bem o músculo", 2},
			{time.Monday, "Tríceps Pulley", 3, domain.Reps("12-15"), 60, "", 3},
			{time.Tuesday, "Agachamento Livre", 4, domain.Reps("8-12"), 120, "Exercício principal", 0},
			{time.Tuesday, "Leg Press 45°", 4, domain.Reps("10-12"), 90, "", 1},
			{time.Tuesday, "Cadeira Extensora", 3, domain.Reps("12-15"), 60, "", 2},
			{time.Tuesday, "Mesa Flexora", 3, domain.Reps("12-15"), 60, "", 3},
			{time.Thursday, "Barra Fixa", 4, domain.Reps("8-12"), 90, "Use auxílio se necessário", 0},
			{time.Thursday, "Remada Curvada", 4, domain.Reps("10-12"), 75, "", 1},
			{time.Thursday, "Puxada Frontal", 3, domain.Reps("12-15"), 60, "", 2},
			{time.Thursday, "Rosca Direta", 3, domain.Reps("12-15"), 60, "", 3},
			{time.Friday, "Desenvolvimento Militar", 4, domain.Reps("8-12"), 90, "", 0},
			{time.Friday, "Elevação Lateral", 3, domain.Reps("12-15"), 60, "", 1},
			{time.Friday, "Elevação Frontal", 3, domain.Reps("12-15"), 60, "", 2},
			{time.Friday, "Encolhimento", 3, domain.Reps("15-20"), 60, "", 3},
		},
	},
	domain.GoalMaintain: {
		name:        "Plano de Manutenção",
		description: "Treino balanceado para manter a forma física atual",
		exercises: []exerciseTemplate{
			{time.Monday, "Supino Reto", 3, domain.Reps("10-12"), 75, "", 0},
			{time.Monday, "Desenvolvimento", 3, domain.Reps("10-12"), 75, "", 1},
			{time.Monday, "Tríceps Testa", 3, domain.Reps("12-15"), 60, "", 2},
			{time.Monday, "Abdominal Crunch", 3, domain.Reps("15-20"), 45, "", 3},
			{time.Wednesday, "Agachamento", 3, domain.Reps("12-15"), 90, "", 0},
			{time.Wednesday, "Leg Press", 3, domain.Reps("12-15"), 75, "", 1},
			{time.Wednesday, "Stiff", 3, domain.Reps("12-15"), 60, "", 2},
			{time.Wednesday, "Panturrilha", 3, domain.Reps("15-20"), 45, "", 3},
			{time.Friday, "Remada Curvada", 3, domain.Reps("10-12"), 75, "", 0},
			{time.Friday, "Puxada Frontal", 3, domain.Reps("10-12"), 75, "", 1},
			{time.Friday, "Rosca Direta", 3, domain.Reps("12-15"), 60, "", 2},
			{time.Friday, "Prancha", 3, domain.Seconds(45), 45, "", 3},
		},
	},
	domain.GoalImproveEndurance: {
		name:        "Plano de Resistência",
		description: "Treino focado em melhorar capacidade cardiovascular e resistência muscular",
		exercises: []exerciseTemplate{
			{time.Monday, "Corrida Intervalada", 1, domain.Minutes(35), 60, "Alternar intensidade a cada 3 min", 0},
			{time.Monday, "Agachamento com Salto", 4, domain.Reps("15-20"), 60, "", 1},
			{time.Monday, "Flexão de Braço", 4, domain.Reps("15-20"), 45, "", 2},
			{time.Monday, "Abdominal Bicicleta", 3, domain.Reps("20-25"), 30, "", 3},
			{time.Tuesday, "Natação", 1, domain.Minutes(45), 60, "Diversos estilos", 0},
			{time.Wednesday, "Bicicleta (HIIT)", 1, domain.Minutes(30), 60, "Alta intensidade intervalada", 0},
			{time.Wednesday, "Leg Press", 4, domain.Reps("20-25"), 60, "Carga moderada", 1},
			{time.Wednesday, "Remada", 4, domain.Reps("20-25"), 60, "", 2},
			{time.Wednesday, "Burpees", 4, domain.Reps("15-20"), 60, "", 3},
			{time.Friday, "Circuito Funcional", 4, domain.Minutes(12), 120, "Múltiplos exercícios sem pausa", 0},
			{time.Friday, "Box Jump", 4, domain.Reps("15-20"), 60, "Aterrissar suave", 1},
			{time.Friday, "Kettlebell Swing", 4, domain.Reps("20-25"), 60, "", 2},
			{time.Friday, "Prancha Lateral", 3, domain.SecondsEachSide(45), 45, "", 3},
		},
	},
}

// BuildWorkout picks the template for the client's goal, falling back to
// maintenance for anything unrecognized. The requested goal is kept on the
// workout as given. Activity level does not affect the selection.
func BuildWorkout(data ClientData) WorkoutDraft {
	tpl, ok := workoutTemplates[data.FitnessGoal]
	if !ok {
		tpl = workoutTemplates[domain.GoalMaintain]
	}

	w := domain.Workout{
		Name:          tpl.name,
		Description:   tpl.description,
		Goal:          data.FitnessGoal,
		DurationWeeks: WorkoutDurationWeeks,
		AIGenerated:   true,
	}

	exercises := make([]domain.Exercise, 0, len(tpl.exercises))
	for _, e := range tpl.exercises {
		exercises = append(exercises, domain.Exercise{
			DayOfWeek:    e.day,
			ExerciseName: e.name,
			Sets:         e.sets,
			Reps:         e.reps,
			RestSeconds:  e.rest,
			Notes:        e.notes,
			OrderIndex:   e.order,
		})
	}
	return WorkoutDraft{Workout: w, Exercises: exercises}
}
