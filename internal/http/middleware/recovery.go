// README: Recovery middleware; a panic becomes a generic SERVER_ERROR.
package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"farequote/internal/http/handlers"
)

func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					"path", c.Request.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				handlers.WriteServerError(c)
			}
		}()
		c.Next()
	}
}
