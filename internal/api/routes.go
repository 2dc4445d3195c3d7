package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spartan/fitness-tracker/internal/metrics"
	"spartan/fitness-tracker/internal/service"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth           service.AuthService
	Profile        service.ProfileService
	Workout        service.WorkoutService
	Completion     service.CompletionService
	Recommendation service.RecommendationService
}

// NewRouter builds a gin engine with the logging, recovery, CORS and
// metrics middleware installed and every route registered.
func NewRouter(services Services, m *metrics.Manager, gatherer prometheus.Gatherer) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(), Recovery(), CORSMiddleware())
	if m != nil {
		router.Use(RequestMetrics(m))
	}
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	SetupRoutes(router, services)
	return router
}

func SetupRoutes(router *gin.Engine, services Services) {
	authHandler := NewAuthHandler(services.Auth)
	profileHandler := NewProfileHandler(services.Profile)
	workoutHandler := NewWorkoutHandler(services.Workout)
	completionHandler := NewCompletionHandler(services.Completion)
	recommendationHandler := NewRecommendationHandler(services.Auth, services.Recommendation)

	authMiddleware := AuthMiddleware(services.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Edge-function style endpoint; authenticates inside the handler
	functions := router.Group("/functions/v1")
	{
		functions.POST("/workout-recommendations", recommendationHandler.Recommend)
		functions.OPTIONS("/workout-recommendations", recommendationHandler.Preflight)
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Catalog and daily challenge are public
		apiV1.GET("/workouts", workoutHandler.ListWorkouts)
		apiV1.GET("/workouts/categories", workoutHandler.CategoryCounts)
		apiV1.GET("/workouts/:id", workoutHandler.GetWorkout)
		apiV1.GET("/workouts/:id/media", workoutHandler.MediaURL)
		apiV1.GET("/challenges/today", workoutHandler.TodayChallenge)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PATCH("/profile", profileHandler.UpdateProfile)
		protected.GET("/profile/stats", profileHandler.GetStats)

		protected.GET("/user-workouts", completionHandler.ListWorkouts)
		protected.POST("/user-workouts", completionHandler.CompleteWorkout)

		protected.GET("/challenge-completions", completionHandler.ListChallenges)
		protected.POST("/challenge-completions", completionHandler.CompleteChallenge)
	}
}
