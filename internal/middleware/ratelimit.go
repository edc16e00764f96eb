package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a fixed-window per-IP limiter backed by Redis, scoped by
// name so the contact form and the analytics tracker count independently.
// Redis being unavailable fails open: abuse protection is not worth taking
// the public site down.
func RateLimit(rdb *redis.Client, scope string, max int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("nisio:rate:%s:%s:%d", scope, ip, bucket)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(ctx, key, window+time.Second)
		}

		if count > int64(max) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "Too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
