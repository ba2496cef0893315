package handlers

import (
	"net/http"
	"time"

	"weather_session/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys and headers set by middleware.
const (
	headerRequestID = "X-Request-ID"
	ctxRequestID    = "requestId"
	ctxUsername     = "username"
)

// requestIDMiddleware keeps a caller-supplied X-Request-ID or issues one.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(headerRequestID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	c.Set(ctxRequestID, id)
	c.Header(headerRequestID, id)
	c.Next()
}

func (h *Handler) accessLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Debugw("http_request",
		"request_id", c.GetString(ctxRequestID),
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"latency", time.Since(start),
	)
}

// sessionMiddleware rejects requests without a signed-in account.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	view, err := h.services.Session(c.Request.Context())
	if err != nil {
		if h.log != nil {
			h.log.Errorw("session_lookup_failed", "err", err)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": errLoadSession,
		})
		return
	}
	if !view.SignedIn {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": service.MsgNotSignedIn,
		})
		return
	}

	c.Set(ctxUsername, view.Username)
	c.Next()
}
