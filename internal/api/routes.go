package api

import (
	"net/http"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the handlers need.
type Services struct {
	Auth        service.AuthService
	Clients     service.ClientService
	Generation  service.GenerationService
	Editor      service.EditorService
	Measurement service.MeasurementService
}

func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	generationHandler := NewGenerationHandler(svc.Generation)
	trainerHandler := NewTrainerHandler(svc.Clients, svc.Generation, svc.Editor, svc.Measurement)
	clientHandler := NewClientHandler(svc.Clients, svc.Measurement)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Called by the dashboard without a bearer token.
	router.POST("/generate-meal-plan", generationHandler.GenerateMealPlan)
	router.OPTIONS("/generate-meal-plan", generationHandler.Preflight)
	router.POST("/generate-workout", generationHandler.GenerateWorkout)
	router.OPTIONS("/generate-workout", generationHandler.Preflight)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		trainerApiGroup := protected.Group("/trainer")
		trainerApiGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerApiGroup.POST("/clients", trainerHandler.AddClient)
			trainerApiGroup.GET("/clients", trainerHandler.GetManagedClients)
			trainerApiGroup.GET("/clients/:clientId", trainerHandler.GetClientDetails)

			trainerApiGroup.POST("/clients/:clientId/meal-plans/generate", trainerHandler.GenerateMealPlanForClient)
			trainerApiGroup.POST("/clients/:clientId/workouts/generate", trainerHandler.GenerateWorkoutForClient)

			trainerApiGroup.GET("/clients/:clientId/meal-plan", trainerHandler.GetActiveMealPlan)
			trainerApiGroup.PUT("/meal-plans/:planId", trainerHandler.SaveMealPlan)
			trainerApiGroup.GET("/clients/:clientId/workout", trainerHandler.GetActiveWorkout)
			trainerApiGroup.PUT("/workouts/:workoutId", trainerHandler.SaveWorkout)

			trainerApiGroup.GET("/clients/:clientId/measurements", trainerHandler.ListClientMeasurements)
			trainerApiGroup.POST("/clients/:clientId/measurements", trainerHandler.AddClientMeasurement)
			trainerApiGroup.GET("/clients/:clientId/progress", trainerHandler.GetClientProgress)
		}

		clientApiGroup := protected.Group("/client")
		clientApiGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientApiGroup.GET("/profile", clientHandler.GetMyProfile)
			clientApiGroup.GET("/workout", clientHandler.GetMyWorkout)
			clientApiGroup.GET("/meal-plan", clientHandler.GetMyMealPlan)

			clientApiGroup.GET("/measurements", clientHandler.ListMyMeasurements)
			clientApiGroup.POST("/measurements", clientHandler.AddMyMeasurement)
			clientApiGroup.GET("/progress", clientHandler.GetMyProgress)

			clientApiGroup.POST("/measurements/:measurementId/photos/upload-url", clientHandler.RequestPhotoUploadURL)
			clientApiGroup.POST("/measurements/:measurementId/photos", clientHandler.ConfirmPhotoUpload)
			clientApiGroup.GET("/measurements/:measurementId/photos", clientHandler.ListPhotos)
		}
	}
}
