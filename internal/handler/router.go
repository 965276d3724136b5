package handler

import (
	"evaluator/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register mounts the evaluator API on an /api/v1 group
func Register(apiV1 *gin.RouterGroup, chat *service.ChatService, logger *zap.Logger) {
	sessions := NewSessionHandler(chat, logger)
	scores := NewScoreHandler(chat, logger)

	// Conversation endpoints
	apiV1.POST("/sessions", sessions.Create)
	apiV1.GET("/sessions/:id", sessions.Get)
	apiV1.POST("/sessions/:id/messages", sessions.SendMessage)
	apiV1.GET("/sessions/:id/result", sessions.Result)
	apiV1.DELETE("/sessions/:id", sessions.Delete)

	// Stateless endpoints
	apiV1.POST("/score", scores.Score)
	apiV1.POST("/explain/stream", scores.ExplainStream)

	// Evaluation log
	apiV1.GET("/evaluations", scores.Evaluations)
	apiV1.GET("/evaluations/:session_id", scores.Evaluation)
}
