// internal/handler/telegram.go
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type TelegramHandler struct {
	bot UpdateHandler
}

func NewTelegramHandler(bot UpdateHandler) *TelegramHandler {
	return &TelegramHandler{bot: bot}
}

// Webhook answers Telegram with 200 for every well-formed update; replies
// are sent through the Bot API, not the webhook response.
func (h *TelegramHandler) Webhook(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		slog.Error("failed to parse telegram update", "error", err)
		c.Status(http.StatusBadRequest)
		return
	}
	h.bot.HandleUpdate(c.Request.Context(), update)
	c.Status(http.StatusOK)
}
