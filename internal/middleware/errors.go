package middleware

import (
	"net/http"

	"github.com/SmoothBot/exchange-volume/internal/domain/dto"
	"github.com/SmoothBot/exchange-volume/internal/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached to the Gin context (via c.Error)
// into a standardized JSON 500 response, unless a handler already wrote one.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	rid, _ := c.Get(RequestIDKey)
	logger.L().Error().
		Str("request_id", toString(rid)).
		Err(err).
		Msg("unhandled request error")

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("internal error", err))
}

// AbortWithError writes a standardized JSON error response with the given
// status and aborts the handler chain.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
