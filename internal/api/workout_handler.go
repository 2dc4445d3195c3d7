package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/service"
)

// WorkoutHandler serves the public catalog and the daily challenge.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type MediaResponse struct {
	URL string `json:"url"`
}

// ListWorkouts handles GET /workouts?category=
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), c.Query("category"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.WithError(err).Error("failed to list workouts")
		abortWithError(c, http.StatusInternalServerError, "Error loading workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		log.WithError(err).Error("failed to load workout")
		abortWithError(c, http.StatusInternalServerError, "Error loading workouts")
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) CategoryCounts(c *gin.Context) {
	counts, err := h.workoutService.CategoryCounts(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("failed to count workouts per category")
		abortWithError(c, http.StatusInternalServerError, "Error loading workouts")
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *WorkoutHandler) MediaURL(c *gin.Context) {
	url, err := h.workoutService.MediaURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrNoMedia):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrStorageUnavailable):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			log.WithError(err).Error("failed to presign workout media")
			abortWithError(c, http.StatusInternalServerError, "Error loading workout media")
		}
		return
	}
	c.JSON(http.StatusOK, MediaResponse{URL: url})
}

// TodayChallenge answers 200 with null when nothing is published today.
func (h *WorkoutHandler) TodayChallenge(c *gin.Context) {
	challenge, err := h.workoutService.TodayChallenge(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("failed to load daily challenge")
		abortWithError(c, http.StatusInternalServerError, "Error loading daily challenge")
		return
	}
	c.JSON(http.StatusOK, challenge)
}
