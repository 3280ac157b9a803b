package planner

import (
	"fmt"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/nutrition"
)

// MealPlanDraft is an unsaved plan and its meals. IDs and timestamps are left zero.
type MealPlanDraft struct {
	Plan  domain.MealPlan
	Meals []domain.Meal
}

type share struct {
	calories, protein, carbs, fats float64
}

type mealTemplate struct {
	mealType     domain.MealType
	name         string
	description  string
	ingredients  string
	instructions string
	share        share
}

// The day is always five meals in this order; only the numbers depend on the client.
var dailyMeals = []mealTemplate{
	{
		mealType:     domain.MealBreakfast,
		name:         "Café da Manhã Completo",
		description:  "Refeição energizante para começar o dia",
		ingredients:  "- 2 ovos mexidos\n- 2 fatias de pão integral\n- 1 banana\n- 1 col. sopa de pasta de amendoim\n- 1 xícara de café com leite desnatado",
		instructions: "Preparar os ovos mexidos com pouco óleo. Torrar o pão integral. Amassar a banana e misturar com pasta de amendoim para passar no pão.",
		share:        share{calories: 0.25, protein: 0.25, carbs: 0.30, fats: 0.25},
	},
	{
		mealType:     domain.MealSnack,
		name:         "Lanche da Manhã",
		description:  "Snack proteico e energético",
		ingredients:  "- 1 iogurte grego natural\n- 30g de granola\n- Frutas vermelhas a gosto",
		instructions: "Misturar todos os ingredientes em uma tigela.",
		share:        share{calories: 0.10, protein: 0.15, carbs: 0.10, fats: 0.10},
	},
	{
		mealType:     domain.MealLunch,
		name:         "Almoço Balanceado",
		description:  "Refeição principal com todos os macronutrientes",
		ingredients:  "- 150g de peito de frango grelhado\n- 4 col. sopa de arroz integral\n- 3 col. sopa de feijão\n- Salada verde à vontade\n- 1 col. sopa de azeite",
		instructions: "Grelhar o frango temperado com ervas. Cozinhar arroz e feijão normalmente. Preparar salada fresca e temperar com azeite e limão.",
		share:        share{calories: 0.35, protein: 0.35, carbs: 0.35, fats: 0.30},
	},
	{
		mealType:     domain.MealSnack,
		name:         "Lanche da Tarde",
		description:  "Snack pré-treino ou entre refeições",
		ingredients:  "- 1 maçã\n- 30g de amêndoas\n- 1 fatia de queijo branco",
		instructions: "Consumir os alimentos como snack rápido.",
		share:        share{calories: 0.10, protein: 0.10, carbs: 0.15, fats: 0.10},
	},
	{
		mealType:     domain.MealDinner,
		name:         "Jantar Leve",
		description:  "Refeição noturna nutritiva e de fácil digestão",
		ingredients:  "- 120g de peixe (tilapia ou salmão)\n- Legumes assados (brócolis, cenoura, abobrinha)\n- Salada verde\n- 1 batata doce pequena",
		instructions: "Assar o peixe com limão e ervas. Assar os legumes no forno com um fio de azeite. Servir com salada fresca.",
		share:        share{calories: 0.20, protein: 0.25, carbs: 0.10, fats: 0.25},
	},
}

// MealPlanName names a plan after the client's goal.
func MealPlanName(goal domain.FitnessGoal) string {
	switch goal {
	case domain.GoalLoseWeight:
		return "Plano de Emagrecimento"
	case domain.GoalGainMuscle:
		return "Plano de Ganho de Massa"
	default:
		return "Plano Balanceado"
	}
}

// BuildMealPlan computes the client's targets and spreads them over the daily
// meal template. Each meal value is rounded on its own, so meal sums may drift
// a few units from the plan totals. Dietary restrictions are not applied.
func BuildMealPlan(data ClientData) MealPlanDraft {
	t := nutrition.Targets(data.Metrics())

	plan := domain.MealPlan{
		Name:          MealPlanName(data.FitnessGoal),
		Description:   fmt.Sprintf("Plano alimentar personalizado com %d calorias diárias", t.DailyCalories),
		DailyCalories: t.DailyCalories,
		ProteinGrams:  t.Protein,
		CarbsGrams:    t.Carbs,
		FatsGrams:     t.Fats,
		AIGenerated:   true,
	}

	meals := make([]domain.Meal, 0, len(dailyMeals))
	for i, tpl := range dailyMeals {
		meals = append(meals, domain.Meal{
			MealType:     tpl.mealType,
			Name:         tpl.name,
			Description:  tpl.description,
			Calories:     nutrition.Round(float64(t.DailyCalories) * tpl.share.calories),
			ProteinGrams: nutrition.Round(float64(t.Protein) * tpl.share.protein),
			CarbsGrams:   nutrition.Round(float64(t.Carbs) * tpl.share.carbs),
			FatsGrams:    nutrition.Round(float64(t.Fats) * tpl.share.fats),
			Ingredients:  tpl.ingredients,
			Instructions: tpl.instructions,
			OrderIndex:   i,
		})
	}
	return MealPlanDraft{Plan: plan, Meals: meals}
}
