package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parcel-track-api-server/internal/apperr"
)

// respondError maps an error-taxonomy kind onto an HTTP status and one
// user-facing message. Unrecognized errors fall back to a generic failure.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	message := "Something went wrong. Please try again."

	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		message = "Some fields are missing or invalid"
	case apperr.KindInvalidCredentials:
		status = http.StatusUnauthorized
		message = "Invalid email or password"
	case apperr.KindWrongPassword:
		status = http.StatusUnauthorized
		message = "Current password is incorrect"
	case apperr.KindEmailInUse:
		status = http.StatusConflict
		message = "Email is already in use"
	case apperr.KindWeakPassword:
		status = http.StatusBadRequest
		message = "Password must be at least 6 characters"
	case apperr.KindInvalidEmail:
		status = http.StatusBadRequest
		message = "Email address is not valid"
	case apperr.KindNotFound:
		status = http.StatusNotFound
		message = "Not found"
	case apperr.KindNetwork:
		status = http.StatusServiceUnavailable
		message = "Connection problem. Please try again."
	case apperr.KindPersistence:
		status = http.StatusInternalServerError
		message = "Failed to save changes. Please try again."
	case apperr.KindConfig:
		status = http.StatusInternalServerError
		message = "Server is misconfigured"
	}

	body := gin.H{"error": message}
	if fields := apperr.FieldsOf(err); len(fields) > 0 {
		body["fields"] = fields
	}
	c.JSON(status, body)
}
