package handlers

import (
	"context"
	"errors"
	"net/http"

	"weather_session/internal/service"
	"weather_session/internal/weather"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service or lookup failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyCity),
		errors.Is(err, service.ErrInvalidUsername),
		errors.Is(err, service.ErrInvalidPin),
		errors.Is(err, weather.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnknownUser),
		errors.Is(err, service.ErrWrongPin),
		errors.Is(err, service.ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, weather.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	case errors.Is(err, weather.ErrTransport),
		errors.Is(err, weather.ErrMissingData),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": <user message>}. Server-side failures are
// logged at error level, caller mistakes at info level.
func (h *Handler) respondError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		h.logAndJSONError(c, code, service.UserMessage(err), logKey, err, kv...)
		return
	}
	if h.log != nil {
		fields := append([]interface{}{"err", err, "status", code}, kv...)
		h.log.Infow(logKey, fields...)
	}
	c.JSON(code, gin.H{"error": service.UserMessage(err)})
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "status", httpCode}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}
