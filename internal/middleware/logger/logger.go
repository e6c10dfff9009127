package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/avdcouto/photoapp/internal/middleware/auth"
)

// Logger returns middleware that logs every request after it is
// handled, including the visitor id when the auth middleware has
// already identified one.
func Logger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Infow("request",
			"method", c.Request.Method,
			"uri", c.Request.RequestURI,
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
			"duration", time.Since(start),
			"visitor", c.GetString(auth.VisitorIDKey),
		)
	}
}
