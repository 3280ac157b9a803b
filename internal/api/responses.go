package api

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

// abortWithServiceError maps service errors onto the /api/v1 status codes.
// Anything unrecognized becomes a 500 with fallback as the message.
func abortWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrMealPlanNotFound),
		errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrMeasurementNotFound),
		errors.Is(err, service.ErrNoMeasurements):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrClientNotManaged),
		errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidClientData),
		errors.Is(err, service.ErrInvalidClientProfile),
		errors.Is(err, service.ErrInvalidPlanEdit),
		errors.Is(err, service.ErrInvalidMeasurement),
		errors.Is(err, service.ErrInvalidPhoto),
		errors.Is(err, service.ErrPhotoNotUploaded),
		errors.Is(err, service.ErrInvalidRegistration):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Meal plans ---

type MealResponse struct {
	ID           string          `json:"id"`
	MealType     domain.MealType `json:"mealType"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Calories     int             `json:"calories"`
	ProteinGrams int             `json:"proteinGrams"`
	CarbsGrams   int             `json:"carbsGrams"`
	FatsGrams    int             `json:"fatsGrams"`
	Ingredients  string          `json:"ingredients"`
	Instructions string          `json:"instructions,omitempty"`
	OrderIndex   int             `json:"orderIndex"`
}

type MealPlanResponse struct {
	ID            string         `json:"id"`
	ClientID      string         `json:"clientId"`
	TrainerID     string         `json:"trainerId"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	DailyCalories int            `json:"dailyCalories"`
	ProteinGrams  int            `json:"proteinGrams"`
	CarbsGrams    int            `json:"carbsGrams"`
	FatsGrams     int            `json:"fatsGrams"`
	AIGenerated   bool           `json:"aiGenerated"`
	IsActive      bool           `json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Meals         []MealResponse `json:"meals"`
}

// MapMealPlanToResponse returns nil for a nil plan so "no active plan" serializes as null.
func MapMealPlanToResponse(p *service.MealPlanWithMeals) *MealPlanResponse {
	if p == nil {
		return nil
	}
	meals := make([]MealResponse, 0, len(p.Meals))
	for _, m := range p.Meals {
		meals = append(meals, MealResponse{
			ID:           m.ID.Hex(),
			MealType:     m.MealType,
			Name:         m.Name,
			Description:  m.Description,
			Calories:     m.Calories,
			ProteinGrams: m.ProteinGrams,
			CarbsGrams:   m.CarbsGrams,
			FatsGrams:    m.FatsGrams,
			Ingredients:  m.Ingredients,
			Instructions: m.Instructions,
			OrderIndex:   m.OrderIndex,
		})
	}
	sort.SliceStable(meals, func(i, j int) bool { return meals[i].OrderIndex < meals[j].OrderIndex })

	return &MealPlanResponse{
		ID:            p.ID.Hex(),
		ClientID:      p.ClientID.Hex(),
		TrainerID:     p.TrainerID.Hex(),
		Name:          p.Name,
		Description:   p.Description,
		DailyCalories: p.DailyCalories,
		ProteinGrams:  p.ProteinGrams,
		CarbsGrams:    p.CarbsGrams,
		FatsGrams:     p.FatsGrams,
		AIGenerated:   p.AIGenerated,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Meals:         meals,
	}
}

// --- Workouts ---

type ExerciseResponse struct {
	ID           string           `json:"id"`
	DayOfWeek    int              `json:"dayOfWeek"`
	ExerciseName string           `json:"exerciseName"`
	Sets         int              `json:"sets"`
	Reps         domain.RepScheme `json:"reps"`
	RepsText     string           `json:"repsText"` // e.g. "10-12", "30 min", "45 seg cada"
	RestSeconds  int              `json:"restSeconds"`
	Notes        string           `json:"notes,omitempty"`
	OrderIndex   int              `json:"orderIndex"`
}

// WorkoutDayResponse is one training day of the weekly schedule.
type WorkoutDayResponse struct {
	DayOfWeek int                `json:"dayOfWeek"`
	DayName   string             `json:"dayName"`
	Exercises []ExerciseResponse `json:"exercises"`
}

type WorkoutResponse struct {
	ID            string               `json:"id"`
	ClientID      string               `json:"clientId"`
	TrainerID     string               `json:"trainerId"`
	Name          string               `json:"name"`
	Description   string               `json:"description,omitempty"`
	Goal          domain.FitnessGoal   `json:"goal"`
	DurationWeeks int                  `json:"durationWeeks"`
	AIGenerated   bool                 `json:"aiGenerated"`
	IsActive      bool                 `json:"isActive"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Exercises     []ExerciseResponse   `json:"exercises"`
	Days          []WorkoutDayResponse `json:"days"`
}

func MapExerciseToResponse(e *domain.Exercise) ExerciseResponse {
	return ExerciseResponse{
		ID:           e.ID.Hex(),
		DayOfWeek:    int(e.DayOfWeek),
		ExerciseName: e.ExerciseName,
		Sets:         e.Sets,
		Reps:         e.Reps,
		RepsText:     e.Reps.String(),
		RestSeconds:  e.RestSeconds,
		Notes:        e.Notes,
		OrderIndex:   e.OrderIndex,
	}
}

// MapWorkoutToResponse orders exercises by day, then order index, and also
// groups them per training day.
func MapWorkoutToResponse(w *service.WorkoutWithExercises) *WorkoutResponse {
	if w == nil {
		return nil
	}
	exercises := make([]ExerciseResponse, 0, len(w.Exercises))
	for i := range w.Exercises {
		exercises = append(exercises, MapExerciseToResponse(&w.Exercises[i]))
	}
	sort.SliceStable(exercises, func(i, j int) bool {
		if exercises[i].DayOfWeek != exercises[j].DayOfWeek {
			return exercises[i].DayOfWeek < exercises[j].DayOfWeek
		}
		return exercises[i].OrderIndex < exercises[j].OrderIndex
	})

	days := []WorkoutDayResponse{}
	for _, e := range exercises {
		if n := len(days); n == 0 || days[n-1].DayOfWeek != e.DayOfWeek {
			days = append(days, WorkoutDayResponse{
				DayOfWeek: e.DayOfWeek,
				DayName:   time.Weekday(e.DayOfWeek).String(),
			})
		}
		days[len(days)-1].Exercises = append(days[len(days)-1].Exercises, e)
	}

	return &WorkoutResponse{
		ID:            w.ID.Hex(),
		ClientID:      w.ClientID.Hex(),
		TrainerID:     w.TrainerID.Hex(),
		Name:          w.Name,
		Description:   w.Description,
		Goal:          w.Goal,
		DurationWeeks: w.DurationWeeks,
		AIGenerated:   w.AIGenerated,
		IsActive:      w.IsActive,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
		Exercises:     exercises,
		Days:          days,
	}
}

// --- Clients ---

type ClientResponse struct {
	ID                  string               `json:"id"`
	UserID              string               `json:"userId,omitempty"`
	TrainerID           string               `json:"trainerId"`
	FullName            string               `json:"fullName"`
	Email               string               `json:"email"`
	DateOfBirth         *time.Time           `json:"dateOfBirth,omitempty"`
	Gender              domain.Gender        `json:"gender,omitempty"`
	Height              float64              `json:"height"`
	CurrentWeight       float64              `json:"currentWeight"`
	GoalWeight          *float64             `json:"goalWeight,omitempty"`
	FitnessGoal         domain.FitnessGoal   `json:"fitnessGoal"`
	ActivityLevel       domain.ActivityLevel `json:"activityLevel"`
	MedicalConditions   string               `json:"medicalConditions,omitempty"`
	DietaryRestrictions string               `json:"dietaryRestrictions,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
}

func MapClientToResponse(cl *domain.Client) ClientResponse {
	resp := ClientResponse{
		ID:                  cl.ID.Hex(),
		TrainerID:           cl.TrainerID.Hex(),
		FullName:            cl.FullName,
		Email:               cl.Email,
		DateOfBirth:         cl.DateOfBirth,
		Gender:              cl.Gender,
		Height:              cl.Height,
		CurrentWeight:       cl.CurrentWeight,
		GoalWeight:          cl.GoalWeight,
		FitnessGoal:         cl.FitnessGoal,
		ActivityLevel:       cl.ActivityLevel,
		MedicalConditions:   cl.MedicalConditions,
		DietaryRestrictions: cl.DietaryRestrictions,
		CreatedAt:           cl.CreatedAt,
	}
	if cl.UserID != nil {
		resp.UserID = cl.UserID.Hex()
	}
	return resp
}

func MapClientsToResponse(clients []domain.Client) []ClientResponse {
	out := make([]ClientResponse, len(clients))
	for i := range clients {
		out[i] = MapClientToResponse(&clients[i])
	}
	return out
}

type ClientDetailsResponse struct {
	Client       ClientResponse       `json:"client"`
	Workout      *WorkoutResponse     `json:"workout"`
	MealPlan     *MealPlanResponse    `json:"mealPlan"`
	Measurements []domain.Measurement `json:"measurements"`
}

func MapClientDetailsToResponse(d *service.ClientDetails) ClientDetailsResponse {
	measurements := d.Measurements
	if measurements == nil {
		measurements = []domain.Measurement{}
	}
	return ClientDetailsResponse{
		Client:       MapClientToResponse(&d.Client),
		Workout:      MapWorkoutToResponse(d.Workout),
		MealPlan:     MapMealPlanToResponse(d.MealPlan),
		Measurements: measurements,
	}
}
