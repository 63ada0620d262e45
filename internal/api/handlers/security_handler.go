// server/internal/api/handlers/security_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parcel-track-api-server/internal/api/middleware"
	"parcel-track-api-server/internal/models"
	"parcel-track-api-server/internal/security"
)

type SecurityHandler struct {
	Security *security.Service
}

func (h *SecurityHandler) LoginHistory(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := h.Security.LoginHistory(c.Request.Context(), uid, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": history})
}

func (h *SecurityHandler) Report(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	report, err := h.Security.GenerateReport(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	assessment, err := h.Security.CheckSuspicious(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report":  report,
		"reasons": assessment.Reasons,
	})
}

func (h *SecurityHandler) GetSettings(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	settings, err := h.Security.Settings(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the settings wholesale; partial updates are not
// supported, matching the lazy-create-then-replace lifecycle.
func (h *SecurityHandler) UpdateSettings(c *gin.Context) {
	uid := c.GetString(middleware.ContextUserID)

	var settings models.SecuritySettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Security.UpdateSettings(c.Request.Context(), uid, settings); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
