package server

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter keeps one token bucket per client key. Buckets are created on
// first sight and live for the process lifetime; the key space (client IPs
// hitting the login routes) stays small.
type ipLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

func newIPLimiter(ratePerMinute float64, burst int) *ipLimiter {
	return &ipLimiter{
		buckets: make(map[string]*rate.Limiter),
		rps:     rate.Limit(ratePerMinute / 60),
		burst:   burst,
	}
}

func (l *ipLimiter) allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.buckets[key]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.buckets[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// clientKey extracts the client IP to meter on. X-Forwarded-For is
// client-controlled, so it is honored only when the deployment declares a
// trusted proxy in front of the service; otherwise a caller could rotate the
// header to get a fresh bucket per request.
func clientKey(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// RateLimit rejects callers that exceed the per-IP budget with 429.
func RateLimit(ratePerMinute float64, burst int, trustProxy bool) gin.HandlerFunc {
	limiter := newIPLimiter(ratePerMinute, burst)
	return func(c *gin.Context) {
		if !limiter.allow(clientKey(c.Request, trustProxy)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
			return
		}
		c.Next()
	}
}
