package api

import (
	"net/http"
	"strings"

	"alcyxob/fitcoach/internal/planner"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationHandler serves the two plan generation endpoints the dashboard
// calls directly. Every failure is reported as 400 {error}.
type GenerationHandler struct {
	generationService service.GenerationService
}

func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

// GenerateRequest is the body of both generation endpoints.
type GenerateRequest struct {
	ClientID   string             `json:"clientId" binding:"required"`
	TrainerID  string             `json:"trainerId" binding:"required"`
	ClientData planner.ClientData `json:"clientData"`
}

func (r GenerateRequest) toInput() (service.GenerationInput, error) {
	clientID, err := primitive.ObjectIDFromHex(r.ClientID)
	if err != nil {
		return service.GenerationInput{}, err
	}
	trainerID, err := primitive.ObjectIDFromHex(r.TrainerID)
	if err != nil {
		return service.GenerationInput{}, err
	}
	return service.GenerationInput{ClientID: clientID, TrainerID: trainerID, Data: r.ClientData}, nil
}

// bindGenerateRequest aborts with 400 and returns false when the body is unusable.
func bindGenerateRequest(c *gin.Context) (service.GenerationInput, bool) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return service.GenerationInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "clientId and trainerId must be valid IDs")
		return service.GenerationInput{}, false
	}
	return in, true
}

// GenerateMealPlan godoc
// @Summary Generate a meal plan for a client
// @Description Computes calorie and macro targets from the client data, stores a five-meal plan and makes it the client's active plan.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Client and profile data"
// @Success 200 {object} gin.H "{success: true, mealPlan}"
// @Failure 400 {object} gin.H "Any failure"
// @Router /generate-meal-plan [post]
func (h *GenerationHandler) GenerateMealPlan(c *gin.Context) {
	in, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	plan, err := h.generationService.GenerateMealPlan(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "mealPlan": MapMealPlanToResponse(plan)})
}

// GenerateWorkout godoc
// @Summary Generate a workout for a client
// @Description Picks the weekly template for the client's goal, stores it and makes it the client's active workout.
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Client and profile data"
// @Success 200 {object} gin.H "{success: true, workout}"
// @Failure 400 {object} gin.H "Any failure"
// @Router /generate-workout [post]
func (h *GenerationHandler) GenerateWorkout(c *gin.Context) {
	in, ok := bindGenerateRequest(c)
	if !ok {
		return
	}
	workout, err := h.generationService.GenerateWorkout(c.Request.Context(), in)
	if err != nil {
		_ = c.Error(err)
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "workout": MapWorkoutToResponse(workout)})
}

// Preflight answers OPTIONS on the generation endpoints. Browser preflights
// carry an Origin and are answered by CORSMiddleware before reaching here.
func (h *GenerationHandler) Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", strings.Join(corsAllowMethods, ","))
	c.Header("Access-Control-Allow-Headers", strings.Join(corsAllowHeaders, ","))
	c.Status(http.StatusOK)
}
