package handler

import (
	"net/http"

	"evaluator/internal/model"
	"evaluator/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler handles conversation HTTP requests
type SessionHandler struct {
	chat   *service.ChatService
	logger *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(chat *service.ChatService, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{chat: chat, logger: logger.Named("session")}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	resp := h.chat.StartSession()
	h.logger.Info("session started", zap.String("session_id", resp.SessionID))
	c.JSON(http.StatusCreated, resp)
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	snap, err := h.chat.Session(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SendMessage handles POST /api/v1/sessions/:id/messages
func (h *SessionHandler) SendMessage(c *gin.Context) {
	var req model.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	id := c.Param("id")
	resp, err := h.chat.SendMessage(c.Request.Context(), id, req.Message)
	if err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			h.logger.Error("turn failed", zap.String("session_id", id), zap.Error(err))
		}
		respondError(c, err)
		return
	}

	if resp.Done && resp.Result != nil {
		h.logger.Info("evaluation finished",
			zap.String("session_id", id),
			zap.Float64("score", resp.Result.Score),
			zap.String("confidence", string(resp.Result.Confidence)),
		)
	}
	c.JSON(http.StatusOK, resp)
}

// Result handles GET /api/v1/sessions/:id/result
func (h *SessionHandler) Result(c *gin.Context) {
	result, err := h.chat.Result(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.chat.EndSession(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
