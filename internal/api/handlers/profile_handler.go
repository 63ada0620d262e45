// server/internal/api/handlers/profile_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parcel-track-api-server/internal/api/middleware"
	"parcel-track-api-server/internal/profile"
	"parcel-track-api-server/internal/session"
)

type ProfileHandler struct {
	Profiles *profile.Service
	Sessions *session.Manager
}

type UpdateEmailRequest struct {
	NewEmail        string `json:"newEmail" binding:"required"`
	CurrentPassword string `json:"currentPassword" binding:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type DeleteAccountRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	p, err := h.Profiles.Get(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	var req profile.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Profiles.Update(c.Request.Context(), uid, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) UpdateEmail(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	var req UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Profiles.UpdateEmail(c.Request.Context(), uid, req.NewEmail, req.CurrentPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Email updated"})
}

func (h *ProfileHandler) UpdatePassword(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Profiles.UpdatePassword(c.Request.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Password updated"})
}

func (h *ProfileHandler) UploadPicture(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "picture file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.Profiles.UploadPicture(c.Request.Context(), uid, file, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"profilePicture": url,
	})
}

// DeleteAccount removes the account and signs the session out regardless
// of which cleanup steps succeeded.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Profiles.DeleteAccount(c.Request.Context(), uid, req.CurrentPassword); err != nil {
		respondError(c, err)
		return
	}

	h.Sessions.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Account deleted"})
}
