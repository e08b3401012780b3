package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docsignflow/internal/models"
	"docsignflow/internal/services"
)

// AuthHandler exposes the login and token verification endpoints.
type AuthHandler struct {
	auth *services.Auth
}

// NewAuthHandler wires an AuthHandler.
func NewAuthHandler(auth *services.Auth) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// AdminLogin handles POST /api/auth/admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse request body"})
		return
	}
	resp, err := h.auth.AdminLogin(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UserLogin handles POST /api/auth/user/login.
func (h *AuthHandler) UserLogin(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse request body"})
		return
	}
	resp, err := h.auth.UserLogin(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Verify handles GET /api/auth/verify, echoing the authenticated identity.
func (h *AuthHandler) Verify(c *gin.Context) {
	actor := actorFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"user": models.LoginUser{ID: actor.UserID, Email: actor.Email, CPF: actor.CPF, Role: actor.Role},
	})
}
