package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"spartan/fitness-tracker/internal/llm"
	"spartan/fitness-tracker/internal/service"
)

const recommendationFailureDetails = "Failed to generate workout recommendations"

// RecommendationHandler exposes the recommendation function. It does its
// own principal resolution so auth failures share the function's error body.
type RecommendationHandler struct {
	authService           service.AuthService
	recommendationService service.RecommendationService
}

func NewRecommendationHandler(authService service.AuthService, recommendationService service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{authService: authService, recommendationService: recommendationService}
}

// FunctionError is the failure body of the recommendation function.
type FunctionError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Preflight answers CORS preflight requests with the CORS headers only.
func (h *RecommendationHandler) Preflight(c *gin.Context) {
	setFunctionCORS(c)
	c.Status(http.StatusOK)
}

// Recommend authenticates the caller before reading the body.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	setFunctionCORS(c)

	userID, err := h.authService.ResolvePrincipal(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		h.failWith(c, err)
		return
	}

	var req service.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	set, err := h.recommendationService.RecommendForUser(c.Request.Context(), userID, req)
	if err != nil {
		h.failWith(c, err)
		return
	}

	c.JSON(http.StatusOK, set)
}

func (h *RecommendationHandler) failWith(c *gin.Context, err error) {
	var upstream *llm.UpstreamError
	switch {
	case errors.Is(err, service.ErrNoAuthHeader):
		h.fail(c, http.StatusUnauthorized, "No authorization header")
	case errors.Is(err, service.ErrNotAuthenticated):
		h.fail(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, service.ErrInvalidPreferences):
		h.fail(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &upstream):
		h.fail(c, http.StatusInternalServerError, fmt.Sprintf("%s API error: %d", upstream.Provider, upstream.StatusCode))
	default:
		log.WithError(err).Error("error in workout-recommendations function")
		h.fail(c, http.StatusInternalServerError, err.Error())
	}
}

func (h *RecommendationHandler) fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, FunctionError{Error: message, Details: recommendationFailureDetails})
}

func setFunctionCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
}
