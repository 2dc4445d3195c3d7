package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/service"
)

type CompletionHandler struct {
	completionService service.CompletionService
}

func NewCompletionHandler(completionService service.CompletionService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService}
}

type CompleteWorkoutRequest struct {
	WorkoutID       string  `json:"workout_id" binding:"required"`
	DurationMinutes *int    `json:"duration_minutes"`
	Notes           *string `json:"notes"`
}

type CompleteChallengeRequest struct {
	ChallengeID           string `json:"challenge_id" binding:"required"`
	CompletionTimeSeconds *int   `json:"completion_time_seconds"`
	RepsCompleted         *int   `json:"reps_completed"`
}

// ListWorkouts handles GET /user-workouts?limit=
func (h *CompletionHandler) ListWorkouts(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	completions, err := h.completionService.ListWorkouts(c.Request.Context(), userID, limit)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to list workout completions")
		abortWithError(c, http.StatusInternalServerError, "Error loading workouts")
		return
	}
	c.JSON(http.StatusOK, completions)
}

func (h *CompletionHandler) CompleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	completion, err := h.completionService.RecordWorkout(c.Request.Context(), userID, service.WorkoutCompletion{
		WorkoutID:       req.WorkoutID,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		h.completionError(c, err, "Error completing workout")
		return
	}
	c.JSON(http.StatusCreated, completion)
}

func (h *CompletionHandler) ListChallenges(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}

	completions, err := h.completionService.ListChallenges(c.Request.Context(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to list challenge completions")
		abortWithError(c, http.StatusInternalServerError, "Error loading challenge completions")
		return
	}
	c.JSON(http.StatusOK, completions)
}

func (h *CompletionHandler) CompleteChallenge(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, err.Error())
		return
	}
	var req CompleteChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	completion, err := h.completionService.RecordChallenge(c.Request.Context(), userID, service.ChallengeCompletion{
		ChallengeID:           req.ChallengeID,
		CompletionTimeSeconds: req.CompletionTimeSeconds,
		RepsCompleted:         req.RepsCompleted,
	})
	if err != nil {
		h.completionError(c, err, "Error completing challenge")
		return
	}
	c.JSON(http.StatusCreated, completion)
}

func (h *CompletionHandler) completionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidCompletion):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrChallengeNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.WithError(err).Error("failed to record completion")
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
