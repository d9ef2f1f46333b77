package middleware

import (
	"fmt"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/cache"
	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware allows limit requests per window for each caller and
// path. A limit of zero disables it.
func RateLimitMiddleware(store cache.Cache, limit int, window time.Duration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		caller := c.ClientIP()
		if id, ok := IdentityFrom(c.Request.Context()); ok {
			caller = id.UserID
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.Request.URL.Path, caller)

		ctx := c.Request.Context()
		count, err := store.Incr(ctx, key)
		if err != nil {
			response.WriteError(c, errs.ServiceUnavailable("Rate limit check failed", err))
			return
		}

		if count == 1 {
			if err := store.Expire(ctx, key, window); err != nil {
				// A counter without a TTL would never reset; start over next request.
				log.Error("Failed to set rate limit window for %s: %v", key, err)
				if err := store.Del(ctx, key); err != nil {
					log.Error("Failed to drop rate limit counter %s: %v", key, err)
				}
			}
		}

		if count > int64(limit) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.WriteError(c, errs.TooManyRequests("Rate limit exceeded"))
			return
		}

		c.Next()
	}
}
