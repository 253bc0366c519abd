package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postboard/postboard/internal/service"
)

// statusFor maps a service error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError renders a service error as a structured HTTP error
// with a human-readable detail string.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	detail := service.Detail(err)
	if status == http.StatusInternalServerError {
		detail = "Internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
