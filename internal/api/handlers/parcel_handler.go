// server/internal/api/handlers/parcel_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"parcel-track-api-server/internal/api/middleware"
	"parcel-track-api-server/internal/lifecycle"
	"parcel-track-api-server/internal/parcel"
	"parcel-track-api-server/internal/socket"
	"parcel-track-api-server/internal/storage"
)

type ParcelHandler struct {
	Repo     *parcel.Repository
	Uploader *storage.Uploader
	Hub      *socket.Hub
	Log      *zap.Logger
}

type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Location string `json:"location"`
}

// CreateParcel validates and persists a new parcel for the caller.
func (h *ParcelHandler) CreateParcel(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req parcel.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Repo.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":         "success",
		"trackingNumber": p.TrackingNumber,
		"parcel":         p,
	})
}

// ListParcels returns the caller's parcels newest first. Optional query
// params: "status" picks a display bucket, "q" searches tracking number
// and title. Counts always cover the full set, matching the UI badges.
func (h *ParcelHandler) ListParcels(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	parcels, err := h.Repo.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	counts := lifecycle.Counts(parcels)
	filtered := lifecycle.FilterByStatus(parcels, c.Query("status"))
	filtered = lifecycle.Search(filtered, c.Query("q"))

	c.JSON(http.StatusOK, gin.H{
		"parcels": filtered,
		"counts":  counts,
	})
}

func (h *ParcelHandler) GetParcel(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	p, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateStatus transitions the parcel and pushes the change to the owner's
// websocket connection. Re-submitting the current status is a no-op.
func (h *ParcelHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, changed, err := h.Repo.UpdateStatus(c.Request.Context(), c.Param("id"), userID, req.Status, req.Location)
	if err != nil {
		respondError(c, err)
		return
	}

	if changed {
		event := socket.StatusEvent{
			ParcelID:       p.ID.Hex(),
			TrackingNumber: p.TrackingNumber,
			Status:         p.Status,
			Location:       req.Location,
			Timestamp:      p.UpdatedAt,
		}
		if err := h.Hub.SendStatusEvent(p.UserID, event); err != nil {
			h.Log.Warn("failed to push status event",
				zap.String("parcelId", p.ID.Hex()),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"parcel": p,
	})
}

// UploadPhoto stores a photo in the blob store and appends its URL to the
// parcel.
func (h *ParcelHandler) UploadPhoto(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	parcelID := c.Param("id")

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.Uploader.UploadFile(c.Request.Context(), file,
		storage.ParcelPhotoKey(userID), fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	if err := h.Repo.AddPhoto(c.Request.Context(), parcelID, userID, url); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"photoUrl": url,
	})
}
