package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pr-poehali-dev/messenger-android-launch/internal/apperrors"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

// respondError renders a domain error with its mapped status. Anything
// without a client-safe code is logged server-side and surfaced opaquely.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr == nil || appErr.Code == apperrors.CodeInternal || appErr.Code == apperrors.CodeUnknown {
		log.Printf("internal error: request_id=%s method=%s path=%s err=%v",
			requestIDFromContext(c), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(apperrors.HTTPStatus(appErr), gin.H{"error": appErr.Message})
}

// MethodNotAllowed is the router's 405 handler.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
}
