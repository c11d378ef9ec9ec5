package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/SmoothBot/exchange-volume/internal/domain/dto"
	"github.com/SmoothBot/exchange-volume/internal/logger"
	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware recovers from handler panics, logs the stack trace, and
// returns a standardized JSON 500 response instead of dropping the connection.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.L().Error().
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				errResponse := dto.NewErrorResponse("Internal server error", fmt.Errorf("%v", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, errResponse)
			}
		}()

		c.Next()
	}
}
