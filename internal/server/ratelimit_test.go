package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(ratePerMinute float64, burst int, trustProxy bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(ratePerMinute, burst, trustProxy), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func hit(r *gin.Engine, remoteAddr, forwardedFor string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBurstThenReject(t *testing.T) {
	r := limitedRouter(5, 3, false)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234", ""))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234", ""))
}

func TestRateLimitPerClient(t *testing.T) {
	r := limitedRouter(5, 1, false)

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234", ""))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234", ""))

	// A different client gets its own bucket.
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2:1234", ""))
}

func TestRateLimitBehindTrustedProxy(t *testing.T) {
	r := limitedRouter(5, 1, true)

	// Same proxy address, different original clients.
	assert.Equal(t, http.StatusOK, hit(r, "172.16.0.1:80", "203.0.113.7"))
	assert.Equal(t, http.StatusOK, hit(r, "172.16.0.1:80", "203.0.113.8"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "172.16.0.1:80", "203.0.113.7, 172.16.0.1"))
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	r := limitedRouter(5, 1, false)

	// Without a trusted proxy the header must not mint fresh buckets.
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1:1234", "203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234", "203.0.113.8"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1:1234", ""))
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.9:5555"
	assert.Equal(t, "192.0.2.9", clientKey(req, false))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 192.0.2.9")
	assert.Equal(t, "192.0.2.9", clientKey(req, false))
	assert.Equal(t, "203.0.113.7", clientKey(req, true))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ""
	assert.Equal(t, "unknown", clientKey(req, false))
}
