package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimit enforces a per-client-IP token bucket of perMinute requests
// per minute with the given burst. Rejected requests get 429 and invoke
// onLimited (nil is allowed) so the caller can count them.
func RateLimit(perMinute, burst int, onLimited func()) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = perMinute
	}

	limit := rate.Limit(float64(perMinute) / 60.0)
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(limit, burst)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			if onLimited != nil {
				onLimited()
			}
			log.WithFields(log.Fields{
				"client_ip": ip,
				"path":      c.Request.URL.Path,
			}).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
