// internal/handler/session.go
package handler

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"travel-cards/internal/auth"
)

type SessionHandler struct {
	tokens      *auth.TokenService
	adminSecret string
}

// NewSessionHandler disables admin login when adminSecret is empty.
func NewSessionHandler(tokens *auth.TokenService, adminSecret string) *SessionHandler {
	return &SessionHandler{tokens: tokens, adminSecret: adminSecret}
}

// Anonymous godoc
// @Summary Issue an anonymous session token for the site's widgets
// @Router /api/v1/session [post]
func (h *SessionHandler) Anonymous(c *gin.Context) {
	token, err := h.tokens.GenerateToken(uuid.NewString(), auth.RoleAnon)
	if err != nil {
		slog.Error("token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type AdminLoginRequest struct {
	Secret string `json:"secret" validate:"required,notblank"`
}

// AdminLogin godoc
// @Summary Exchange the admin secret for an admin token
// @Router /api/v1/admin/login [post]
func (h *SessionHandler) AdminLogin(c *gin.Context) {
	if h.adminSecret == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "admin access disabled"})
		return
	}

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.adminSecret)) != 1 {
		slog.Warn("admin login rejected", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret"})
		return
	}

	token, err := h.tokens.GenerateToken("admin", auth.RoleAdmin)
	if err != nil {
		slog.Error("token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
