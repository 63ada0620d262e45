// server/internal/api/handlers/auth_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parcel-track-api-server/internal/session"
)

type AuthHandler struct {
	Sessions *session.Manager
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt := session.Attempt{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	profile, token, err := h.Sessions.SignIn(c.Request.Context(), req.Email, req.Password, attempt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  token,
		"user":   profile,
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt := session.Attempt{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	profile, token, err := h.Sessions.SignUp(c.Request.Context(), req.Email, req.Password, req.Name, attempt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"token":  token,
		"user":   profile,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Sessions.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
