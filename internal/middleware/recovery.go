package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fieldops/internal/pkg"
)

// Recovery returns a gin middleware that recovers from panics, logs the panic
// with its stack trace and answers with the generic error body:
//
//	{"error": "INTERNAL_ERROR", "message": "An unexpected error occurred"}
//
// Nothing is written when the handler already sent a response.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.ErrorContext(c.Request.Context(), "panic recovered",
				slog.Any("panic", rec),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			c.Abort()
			if c.Writer.Written() {
				return
			}
			pkg.Error(c, fmt.Errorf("panic: %v", rec))
		}()
		c.Next()
	}
}
