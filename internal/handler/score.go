package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"evaluator/internal/model"
	"evaluator/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultEvaluationLimit = 20
	maxEvaluationLimit     = 100
)

// ScoreHandler handles stateless scoring, concept explanations and the
// evaluation log
type ScoreHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(chat *service.ChatService, logger *zap.Logger) *ScoreHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreHandler{chat: chat, logger: logger.Named("score")}
}

// Score handles POST /api/v1/score
func (h *ScoreHandler) Score(c *gin.Context) {
	var req model.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.chat.Score(req.Record))
}

// Evaluation handles GET /api/v1/evaluations/:session_id
func (h *ScoreHandler) Evaluation(c *gin.Context) {
	entry, err := h.chat.Evaluation(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Evaluations handles GET /api/v1/evaluations?limit=N
func (h *ScoreHandler) Evaluations(c *gin.Context) {
	limit := defaultEvaluationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + raw})
			return
		}
		limit = min(n, maxEvaluationLimit)
	}

	entries, err := h.chat.RecentEvaluations(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": entries, "count": len(entries)})
}

// ExplainStream handles POST /api/v1/explain/stream - SSE streaming explanation
func (h *ScoreHandler) ExplainStream(c *gin.Context) {
	var req model.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"question": req.Question})
	flusher.Flush()

	full, err := h.chat.ExplainStream(c.Request.Context(), req.Question, func(content string) error {
		sendSSE(c, "content", map[string]any{"content": content})
		flusher.Flush()
		return c.Request.Context().Err()
	})
	if err != nil {
		h.logger.Warn("explain stream failed", zap.Error(err))
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	sendSSE(c, "done", map[string]any{"explanation": full})
	flusher.Flush()
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data == nil {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, jsonData)
}
