package api

import (
	"net/http"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler serves the logged-in client's own dashboard.
type ClientHandler struct {
	clientService      service.ClientService
	measurementService service.MeasurementService
}

func NewClientHandler(clientService service.ClientService, measurementService service.MeasurementService) *ClientHandler {
	return &ClientHandler{clientService: clientService, measurementService: measurementService}
}

// --- DTOs ---

type MeasurementRequest struct {
	Weight            float64    `json:"weight" binding:"required,gt=0"`
	BodyFatPercentage *float64   `json:"bodyFatPercentage" binding:"omitempty,min=0,max=100"`
	Chest             *float64   `json:"chest"`
	Waist             *float64   `json:"waist"`
	Hips              *float64   `json:"hips"`
	LeftArm           *float64   `json:"leftArm"`
	RightArm          *float64   `json:"rightArm"`
	LeftThigh         *float64   `json:"leftThigh"`
	RightThigh        *float64   `json:"rightThigh"`
	LeftCalf          *float64   `json:"leftCalf"`
	RightCalf         *float64   `json:"rightCalf"`
	Notes             string     `json:"notes"`
	MeasuredAt        *time.Time `json:"measuredAt"`
}

type RequestUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType"`
}

// addMeasurement is shared by the trainer and client routes.
func addMeasurement(c *gin.Context, measurements service.MeasurementService, clientID primitive.ObjectID) {
	var req MeasurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	m, err := measurements.AddMeasurement(c.Request.Context(), clientID, service.MeasurementInput{
		Weight:            req.Weight,
		BodyFatPercentage: req.BodyFatPercentage,
		Chest:             req.Chest,
		Waist:             req.Waist,
		Hips:              req.Hips,
		LeftArm:           req.LeftArm,
		RightArm:          req.RightArm,
		LeftThigh:         req.LeftThigh,
		RightThigh:        req.RightThigh,
		LeftCalf:          req.LeftCalf,
		RightCalf:         req.RightCalf,
		Notes:             req.Notes,
		MeasuredAt:        req.MeasuredAt,
	})
	if err != nil {
		abortWithServiceError(c, err, "Failed to save measurement.")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// me resolves the client profile behind the token.
func (h *ClientHandler) me(c *gin.Context) (*domain.Client, bool) {
	userID, ok := userObjectID(c)
	if !ok {
		return nil, false
	}
	client, err := h.clientService.GetClientForUser(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve client profile.")
		return nil, false
	}
	return client, true
}

// --- Handler Methods for Client ---

// GetMyProfile godoc
// @Summary Get my client profile
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ClientResponse
// @Failure 404 {object} gin.H "No profile linked to this login"
// @Router /client/profile [get]
func (h *ClientHandler) GetMyProfile(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, MapClientToResponse(client))
}

// GetMyWorkout godoc
// @Summary Get my active workout
// @Description Returns {"workout": null} until the trainer generates one.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "{workout}"
// @Router /client/workout [get]
func (h *ClientHandler) GetMyWorkout(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}
	workout, err := h.clientService.GetMyWorkout(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve workout.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": MapWorkoutToResponse(workout)})
}

// GetMyMealPlan godoc
// @Summary Get my active meal plan
// @Description Returns {"mealPlan": null} until the trainer generates one.
// @Tags Client
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "{mealPlan}"
// @Router /client/meal-plan [get]
func (h *ClientHandler) GetMyMealPlan(c *gin.Context) {
	userID, ok := userObjectID(c)
	if !ok {
		return
	}
	plan, err := h.clientService.GetMyMealPlan(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve meal plan.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"mealPlan": MapMealPlanToResponse(plan)})
}

// ListMyMeasurements godoc
// @Summary List my measurements, oldest first
// @Tags Client Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Measurement
// @Router /client/measurements [get]
func (h *ClientHandler) ListMyMeasurements(c *gin.Context) {
	client, ok := h.me(c)
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

// AddMyMeasurement godoc
// @Summary Record a measurement
// @Tags Client Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MeasurementRequest true "Measurement"
// @Success 201 {object} domain.Measurement
// @Failure 400 {object} gin.H "Invalid measurement"
// @Router /client/measurements [post]
func (h *ClientHandler) AddMyMeasurement(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}
	addMeasurement(c, h.measurementService, client.ID)
}

// GetMyProgress godoc
// @Summary Summarize my progress
// @Tags Client Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProgressSummary
// @Failure 404 {object} gin.H "No measurements yet"
// @Router /client/progress [get]
func (h *ClientHandler) GetMyProgress(c *gin.Context) {
	client, ok := h.me(c)
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

// RequestPhotoUploadURL godoc
// @Summary Request a pre-signed URL to upload a progress photo
// @Description The browser PUTs the image straight to the bucket with the same Content-Type.
// @Tags Client Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param measurementId path string true "Measurement's ObjectID Hex"
// @Param uploadRequest body RequestUploadURLRequest true "Image content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 404 {object} gin.H "Measurement not found"
// @Router /client/measurements/{measurementId}/photos/upload-url [post]
func (h *ClientHandler) RequestPhotoUploadURL(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}
	measurementID, ok := pathObjectID(c, "measurementId")
	if !ok {
		return
	}
	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.measurementService.RequestPhotoUploadURL(c.Request.Context(), client.ID, measurementID, req.ContentType)
	if err != nil {
		abortWithServiceError(c, err, "Failed to get upload URL.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload godoc
// @Summary Confirm a progress photo upload
// @Tags Client Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param measurementId path string true "Measurement's ObjectID Hex"
// @Param confirmRequest body ConfirmUploadRequest true "Uploaded object"
// @Success 201 {object} domain.ProgressPhoto
// @Failure 400 {object} gin.H "Object missing, too large or outside this measurement"
// @Router /client/measurements/{measurementId}/photos [post]
func (h *ClientHandler) ConfirmPhotoUpload(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}
	measurementID, ok := pathObjectID(c, "measurementId")
	if !ok {
		return
	}
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	photo, err := h.measurementService.ConfirmPhotoUpload(c.Request.Context(), client.ID, measurementID, service.PhotoUpload{
		ObjectKey:   req.ObjectKey,
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		abortWithServiceError(c, err, "Failed to confirm upload.")
		return
	}
	c.JSON(http.StatusCreated, photo)
}

// ListPhotos godoc
// @Summary List a measurement's photos with temporary download links
// @Tags Client Progress
// @Produce json
// @Security BearerAuth
// @Param measurementId path string true "Measurement's ObjectID Hex"
// @Success 200 {array} service.PhotoWithURL
// @Router /client/measurements/{measurementId}/photos [get]
func (h *ClientHandler) ListPhotos(c *gin.Context) {
	client, ok := h.me(c)
	if !ok {
		return
	}
	measurementID, ok := pathObjectID(c, "measurementId")
	if !ok {
		return
	}
	photos, err := h.measurementService.ListPhotos(c.Request.Context(), client.ID, measurementID)
	if err != nil {
		abortWithServiceError(c, err, "Failed to retrieve photos.")
		return
	}
	c.JSON(http.StatusOK, photos)
}
