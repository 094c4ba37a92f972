package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assessly-backend/internal/mail"
	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

// apiError maps a service error to a status and a client-safe message.
// Anything unrecognized is an internal error and its text never leaves the
// server.
func apiError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidSubmission), errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrCodeNotFound), errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrCodeUsed), errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrCodeExpired):
		return http.StatusGone, err.Error()
	case errors.Is(err, mail.ErrDisabled):
		return http.StatusServiceUnavailable, "email delivery is not configured"
	case errors.Is(err, service.ErrNotificationFailed):
		return http.StatusBadGateway, "email delivery failed"
	}
	return http.StatusInternalServerError, "internal error"
}

func respondError(c *gin.Context, log *utilities.Logger, err error) {
	status, msg := apiError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
