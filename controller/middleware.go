package controller

import (
	"net/http"
	"strconv"
	"time"

	"inc/client"
	"inc/metrics"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// RateLimitMiddleware allows limit requests per client and route within window.
// Counter errors let the request through.
func RateLimitMiddleware(counter client.Counter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}
		key := "ratelimit:" + c.FullPath() + ":" + c.ClientIP()
		count, err := counter.Increment(c.Request.Context(), key, window)
		if err != nil {
			log.WithError(err).Warn("rate limit counter unavailable")
			c.Next()
			return
		}
		if count > int64(limit) {
			metrics.RateLimitedTotal.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			return
		}
		c.Next()
	}
}
