// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-gateway/internal/domain/session"
)

// AuthHandler exposes the session manager to the UI shell
type AuthHandler struct {
	sessions *session.Manager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if err := h.sessions.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid email or password",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    h.sessionState(),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
		"data":    h.sessionState(),
	})
}

// Status handles GET /auth/status
func (h *AuthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Session status retrieved successfully",
		"data":    h.sessionState(),
	})
}

// Refresh handles POST /auth/refresh-status; it re-runs the credential
// chain, which the UI shell calls once at startup
func (h *AuthHandler) Refresh(c *gin.Context) {
	h.sessions.CheckAuthStatus(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Session status refreshed",
		"data":    h.sessionState(),
	})
}

func (h *AuthHandler) sessionState() gin.H {
	user, ok := h.sessions.CurrentUser()
	if !ok {
		return gin.H{
			"authenticated": false,
		}
	}
	return gin.H{
		"authenticated": true,
		"user":          user,
	}
}
