// internal/handler/chat.go
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ChatResponder interface {
	Reply(ctx context.Context, msg string) (string, bool)
}

type ChatHandler struct {
	assistant ChatResponder
}

func NewChatHandler(a ChatResponder) *ChatHandler {
	return &ChatHandler{assistant: a}
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,notblank,max=2000"`
}

type ChatResponse struct {
	Response string `json:"response"`
	Degraded bool   `json:"degraded"`
}

// Chat godoc
// @Summary Ask the travel card assistant
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Question"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, degraded := h.assistant.Reply(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, ChatResponse{Response: reply, Degraded: degraded})
}
