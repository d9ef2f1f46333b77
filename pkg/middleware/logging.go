package middleware

import (
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/response"

	"github.com/gin-gonic/gin"
)

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= 500:
			log.Error("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, latency)
		case status >= 400:
			log.Warn("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, latency)
		default:
			log.Info("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, latency)
		}
	}
}

// Recovery turns panics into a 500 fallback body.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		response.WriteError(c, errs.Internal("Internal server error", nil))
	})
}
