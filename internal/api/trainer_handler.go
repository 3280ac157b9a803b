package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/planner"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerHandler struct {
	clientService      service.ClientService
	generationService  service.GenerationService
	editorService      service.EditorService
	measurementService service.MeasurementService
}

func NewTrainerHandler(
	clientService service.ClientService,
	generationService service.GenerationService,
	editorService service.EditorService,
	measurementService service.MeasurementService,
) *TrainerHandler {
	return &TrainerHandler{
		clientService:      clientService,
		generationService:  generationService,
		editorService:      editorService,
		measurementService: measurementService,
	}
}

// --- DTOs for Client Management ---

type AddClientRequest struct {
	FullName            string               `json:"fullName" binding:"required"`
	Email               string               `json:"email" binding:"required,email"`
	Password            string               `json:"password" binding:"required,min=8"`
	DateOfBirth         *time.Time           `json:"dateOfBirth"`
	Gender              domain.Gender        `json:"gender" binding:"omitempty,oneof=male female other"`
	Height              float64              `json:"height" binding:"required,gt=0"`
	CurrentWeight       float64              `json:"currentWeight" binding:"required,gt=0"`
	GoalWeight          *float64             `json:"goalWeight" binding:"omitempty,gt=0"`
	FitnessGoal         domain.FitnessGoal   `json:"fitnessGoal" binding:"required"`
	ActivityLevel       domain.ActivityLevel `json:"activityLevel" binding:"required"`
	MedicalConditions   string               `json:"medicalConditions"`
	DietaryRestrictions string               `json:"dietaryRestrictions"`
}

// --- Handler Methods for Client Management ---

// AddClient godoc
// @Summary Add a client to the trainer's roster
// @Description Creates the client's login and profile in one step.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientRequest body AddClientRequest true "Client profile and credentials"
// @Success 201 {object} ClientResponse "Client created"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already registered"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /trainer/clients [post]
func (h *TrainerHandler) AddClient(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}

	client, err := h.clientService.AddClient(c.Request.Context(), trainerID, service.NewClientInput{
		FullName:            req.FullName,
		Email:               req.Email,
		Password:            req.Password,
		DateOfBirth:         req.DateOfBirth,
		Gender:              req.Gender,
		Height:              req.Height,
		CurrentWeight:       req.CurrentWeight,
		GoalWeight:          req.GoalWeight,
		FitnessGoal:         req.FitnessGoal,
		ActivityLevel:       req.ActivityLevel,
		MedicalConditions:   req.MedicalConditions,
		DietaryRestrictions: req.DietaryRestrictions,
	})
	if err != nil {
		abortWithServiceError(c, err, "Failed to add client.")
		return
	}
	c.JSON(http.StatusCreated, MapClientToResponse(client))
}

// GetManagedClients godoc
// @Summary Get the trainer's managed clients
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ClientResponse "List of managed clients, newest first"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "Forbidden (not a trainer)"
// @Router /trainer/clients [get]
func (h *TrainerHandler) GetManagedClients(c *gin.Context) {
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}
	clients, err := h.clientService.ListClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve managed clients.")
		return
	}
	c.JSON(http.StatusOK, MapClientsToResponse(clients))
}

// GetClientDetails godoc
// @Summary Get a client with their active plans and measurements
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 200 {object} ClientDetailsResponse
// @Failure 403 {object} gin.H "Client belongs to another trainer"
// @Failure 404 {object} gin.H "Client not found"
// @Router /trainer/clients/{clientId} [get]
func (h *TrainerHandler) GetClientDetails(c *gin.Context) {
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	details, err := h.clientService.GetClientDetails(c.Request.Context(), trainerID, clientID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve client.")
		return
	}
	c.JSON(http.StatusOK, MapClientDetailsToResponse(details))
}

// trainerClient resolves the trainer and the managed client named in the path.
func (h *TrainerHandler) trainerClient(c *gin.Context) (primitive.ObjectID, *domain.Client, bool) {
	trainerID, ok := userObjectID(c)
	if !ok {
		return primitive.NilObjectID, nil, false
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return primitive.NilObjectID, nil, false
	}
	client, err := h.clientService.GetClient(c.Request.Context(), trainerID, clientID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve client.")
		return primitive.NilObjectID, nil, false
	}
	return trainerID, client, true
}

// --- Generation from the stored profile ---

// GenerateMealPlanForClient godoc
// @Summary Generate a meal plan from the client's stored profile
// @Tags Trainer Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 201 {object} MealPlanResponse
// @Router /trainer/clients/{clientId}/meal-plans/generate [post]
func (h *TrainerHandler) GenerateMealPlanForClient(c *gin.Context) {
	trainerID, client, ok := h.trainerClient(c)
	if !ok {
		return
	}
	plan, err := h.generationService.GenerateMealPlan(c.Request.Context(), service.GenerationInput{
		ClientID: client.ID, TrainerID: trainerID, Data: planner.FromClient(client),
	})
	if err != nil {
		abortWithServiceError(c, err, "Failed to generate meal plan.")
		return
	}
	c.JSON(http.StatusCreated, MapMealPlanToResponse(plan))
}

// GenerateWorkoutForClient godoc
// @Summary Generate a workout from the client's stored profile
// @Tags Trainer Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 201 {object} WorkoutResponse
// @Router /trainer/clients/{clientId}/workouts/generate [post]
func (h *TrainerHandler) GenerateWorkoutForClient(c *gin.Context) {
	trainerID, client, ok := h.trainerClient(c)
	if !ok {
		return
	}
	workout, err := h.generationService.GenerateWorkout(c.Request.Context(), service.GenerationInput{
		ClientID: client.ID, TrainerID: trainerID, Data: planner.FromClient(client),
	})
	if err != nil {
		abortWithServiceError(c, err, "Failed to generate workout.")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

// --- Editors ---

type MealRequest struct {
	ID           string          `json:"id"` // empty for a new meal
	MealType     domain.MealType `json:"mealType" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	Calories     int             `json:"calories"`
	ProteinGrams int             `json:"proteinGrams"`
	CarbsGrams   int             `json:"carbsGrams"`
	FatsGrams    int             `json:"fatsGrams"`
	Ingredients  string          `json:"ingredients"`
	Instructions string          `json:"instructions"`
	OrderIndex   int             `json:"orderIndex"`
}

type SaveMealPlanRequest struct {
	Name              string        `json:"name" binding:"required"`
	Description       string        `json:"description"`
	DailyCalories     int           `json:"dailyCalories"`
	ProteinGrams      int           `json:"proteinGrams"`
	CarbsGrams        int           `json:"carbsGrams"`
	FatsGrams         int           `json:"fatsGrams"`
	Meals             []MealRequest `json:"meals" binding:"dive"`
	DeletedMealIDs    []string      `json:"deletedMealIds"`
	RecalculateTotals bool          `json:"recalculateTotals"`
}

type ExerciseRequest struct {
	ID           string           `json:"id"` // empty for a new exercise
	DayOfWeek    int              `json:"dayOfWeek"`
	ExerciseName string           `json:"exerciseName" binding:"required"`
	Sets         int              `json:"sets"`
	Reps         domain.RepScheme `json:"reps"` // object or legacy string like "10-12"
	RestSeconds  int              `json:"restSeconds"`
	Notes        string           `json:"notes"`
	OrderIndex   int              `json:"orderIndex"`
}

type SaveWorkoutRequest struct {
	Name               string             `json:"name" binding:"required"`
	Description        string             `json:"description"`
	Goal               domain.FitnessGoal `json:"goal"`
	DurationWeeks      int                `json:"durationWeeks"`
	Exercises          []ExerciseRequest  `json:"exercises" binding:"dive"`
	DeletedExerciseIDs []string           `json:"deletedExerciseIds"`
}

func parseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", h)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func optionalObjectID(h string) (primitive.ObjectID, error) {
	if h == "" {
		return primitive.NilObjectID, nil
	}
	id, err := primitive.ObjectIDFromHex(h)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q", h)
	}
	return id, nil
}

func (r SaveMealPlanRequest) toEdit() (service.MealPlanEdit, error) {
	deleted, err := parseObjectIDs(r.DeletedMealIDs)
	if err != nil {
		return service.MealPlanEdit{}, err
	}
	meals := make([]domain.Meal, 0, len(r.Meals))
	for _, m := range r.Meals {
		id, err := optionalObjectID(m.ID)
		if err != nil {
			return service.MealPlanEdit{}, err
		}
		meals = append(meals, domain.Meal{
			ID:           id,
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
	return service.MealPlanEdit{
		Name:              r.Name,
		Description:       r.Description,
		DailyCalories:     r.DailyCalories,
		ProteinGrams:      r.ProteinGrams,
		CarbsGrams:        r.CarbsGrams,
		FatsGrams:         r.FatsGrams,
		Meals:             meals,
		DeletedMealIDs:    deleted,
		RecalculateTotals: r.RecalculateTotals,
	}, nil
}

func (r SaveWorkoutRequest) toEdit() (service.WorkoutEdit, error) {
	deleted, err := parseObjectIDs(r.DeletedExerciseIDs)
	if err != nil {
		return service.WorkoutEdit{}, err
	}
	exercises := make([]domain.Exercise, 0, len(r.Exercises))
	for _, e := range r.Exercises {
		id, err := optionalObjectID(e.ID)
		if err != nil {
			return service.WorkoutEdit{}, err
		}
		exercises = append(exercises, domain.Exercise{
			ID:           id,
			DayOfWeek:    time.Weekday(e.DayOfWeek),
			ExerciseName: e.ExerciseName,
			Sets:         e.Sets,
			Reps:         e.Reps,
			RestSeconds:  e.RestSeconds,
			Notes:        e.Notes,
			OrderIndex:   e.OrderIndex,
		})
	}
	return service.WorkoutEdit{
		Name:               r.Name,
		Description:        r.Description,
		Goal:               r.Goal,
		DurationWeeks:      r.DurationWeeks,
		Exercises:          exercises,
		DeletedExerciseIDs: deleted,
	}, nil
}

// GetActiveMealPlan godoc
// @Summary Get the client's active meal plan for editing
// @Description Returns {"mealPlan": null} when the client has no plan yet.
// @Tags Trainer Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 200 {object} gin.H "{mealPlan}"
// @Router /trainer/clients/{clientId}/meal-plan [get]
func (h *TrainerHandler) GetActiveMealPlan(c *gin.Context) {
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	plan, err := h.editorService.GetActiveMealPlan(c.Request.Context(), trainerID, clientID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve meal plan.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mealPlan": MapMealPlanToResponse(plan)})
}

// SaveMealPlan godoc
// @Summary Save the meal plan editor
// @Description Applies deletions, updates and inserts of meals and the plan header in one step.
// @Tags Trainer Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Meal plan's ObjectID Hex"
// @Param request body SaveMealPlanRequest true "Editor state"
// @Success 200 {object} MealPlanResponse
// @Failure 400 {object} gin.H "Invalid edit"
// @Failure 403 {object} gin.H "Plan belongs to another trainer"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /trainer/meal-plans/{planId} [put]
func (h *TrainerHandler) SaveMealPlan(c *gin.Context) {
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}
	planID, ok := pathObjectID(c, "planId")
	if !ok {
		return
	}
	var req SaveMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	edit, err := req.toEdit()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.editorService.SaveMealPlan(c.Request.Context(), trainerID, planID, edit)
	if err != nil {
		abortWithServiceError(c, err, "Failed to save meal plan.")
		return
	}
	c.JSON(http.StatusOK, MapMealPlanToResponse(plan))
}

// GetActiveWorkout godoc
// @Summary Get the client's active workout for editing
// @Description Returns {"workout": null} when the client has no workout yet.
// @Tags Trainer Plans
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 200 {object} gin.H "{workout}"
// @Router /trainer/clients/{clientId}/workout [get]
func (h *TrainerHandler) GetActiveWorkout(c *gin.Context) {
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}
	clientID, ok := pathObjectID(c, "clientId")
	if !ok {
		return
	}
	workout, err := h.editorService.GetActiveWorkout(c.Request.Context(), trainerID, clientID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve workout.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": MapWorkoutToResponse(workout)})
}

// SaveWorkout godoc
// @Summary Save the workout editor
// @Tags Trainer Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout's ObjectID Hex"
// @Param request body SaveWorkoutRequest true "Editor state"
// @Success 200 {object} WorkoutResponse
// @Failure 400 {object} gin.H "Invalid edit"
// @Failure 403 {object} gin.H "Workout belongs to another trainer"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /trainer/workouts/{workoutId} [put]
func (h *TrainerHandler) SaveWorkout(c *gin.Context) {
	trainerID, ok := userObjectID(c)
	if !ok {
		return
	}
	workoutID, ok := pathObjectID(c, "workoutId")
	if !ok {
		return
	}
	var req SaveWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	edit, err := req.toEdit()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.editorService.SaveWorkout(c.Request.Context(), trainerID, workoutID, edit)
	if err != nil {
		abortWithServiceError(c, err, "Failed to save workout.")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// --- Measurements ---

// ListClientMeasurements godoc
// @Summary List a client's measurements, oldest first
// @Tags Trainer Progress
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 200 {array} domain.Measurement
// @Router /trainer/clients/{clientId}/measurements [get]
func (h *TrainerHandler) ListClientMeasurements(c *gin.Context) {
	_, client, ok := h.trainerClient(c)
	if !ok {
		return
	}
	measurements, err := h.measurementService.ListMeasurements(c.Request.Context(), client.ID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve measurements.")
		return
	}
	c.JSON(http.StatusOK, measurements)
}

// AddClientMeasurement godoc
// @Summary Record a measurement for a client
// @Tags Trainer Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Param request body MeasurementRequest true "Measurement"
// @Success 201 {object} domain.Measurement
// @Router /trainer/clients/{clientId}/measurements [post]
func (h *TrainerHandler) AddClientMeasurement(c *gin.Context) {
	_, client, ok := h.trainerClient(c)
	if !ok {
		return
	}
	addMeasurement(c, h.measurementService, client.ID)
}

// GetClientProgress godoc
// @Summary Summarize a client's progress towards their goal weight
// @Tags Trainer Progress
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client's ObjectID Hex"
// @Success 200 {object} service.ProgressSummary
// @Failure 404 {object} gin.H "No measurements yet"
// @Router /trainer/clients/{clientId}/progress [get]
func (h *TrainerHandler) GetClientProgress(c *gin.Context) {
	_, client, ok := h.trainerClient(c)
	if !ok {
		return
	}
	summary, err := h.measurementService.Progress(c.Request.Context(), client.ID, client.GoalWeight)
	if err != nil {
		abortWithServiceError(c, err, "Failed to compute progress.")
		return
	}
	c.JSON(http.StatusOK, summary)
}
