package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"pdf-chat-backend/internal/config"
	"pdf-chat-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware implements rate limiting using Redis, per IP + endpoint
// combination. It fails open: if Redis is unreachable, requests pass through.
func RateLimitMiddleware(rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Health checks are never rate limited
		if c.FullPath() == "/health" {
			c.Next()
			return
		}

		key := "ratelimit:" + c.ClientIP() + ":" + c.FullPath()

		ctx := context.Background()
		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Fail open - don't block requests if Redis is down
			c.Next()
			return
		}

		if count == 1 {
			rdb.Expire(ctx, key, time.Duration(cfg.RateLimitWindow)*time.Second)
		}

		if count > int64(cfg.RateLimitReqs) {
			c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RateLimitReqs))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(
				time.Now().Add(time.Duration(cfg.RateLimitWindow)*time.Second).Unix(), 10))

			utils.RespondWithError(c, http.StatusTooManyRequests,
				"rate_limit_exceeded",
				"Too many requests. Please try again later.",
				gin.H{
					"retry_after": cfg.RateLimitWindow,
					"limit":       cfg.RateLimitReqs,
				})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RateLimitReqs))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(cfg.RateLimitReqs-int(count)))
		c.Next()
	}
}
