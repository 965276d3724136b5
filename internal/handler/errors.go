package handler

import (
	"errors"
	"net/http"

	"evaluator/internal/dialogue"
	"evaluator/internal/repository"
	"evaluator/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, dialogue.ErrSessionNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrEvaluationLogDisabled):
		return http.StatusNotFound
	case errors.Is(err, dialogue.ErrConversationDone),
		errors.Is(err, service.ErrResultPending):
		return http.StatusConflict
	case errors.Is(err, service.ErrAIDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
