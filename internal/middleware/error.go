package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler renders the last error pushed with c.Error. Application errors
// map to their status code; anything else is a 500 with a generic message.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		lastErr := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := "internal server error"
		level := zerolog.ErrorLevel

		if appErr, ok := apperrors.As(lastErr); ok {
			status = appErr.StatusCode()
			message = appErr.PublicMessage()
			if status < http.StatusInternalServerError {
				level = zerolog.DebugLevel
			}
		}

		zerolog.Ctx(c.Request.Context()).WithLevel(level).
			Err(lastErr).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Int("status", status).
			Msg("Request error")

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
	}
}
