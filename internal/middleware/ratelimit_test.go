package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimiterAllow(t *testing.T) {
	r := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !r.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if r.Allow("10.0.0.1") {
		t.Error("request over the limit should be blocked")
	}
	// other clients are unaffected
	if !r.Allow("10.0.0.2") {
		t.Error("different key should have its own bucket")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	r := NewRateLimiter(1, 10*time.Millisecond)

	if !r.Allow("10.0.0.1") {
		t.Fatal("first request should pass")
	}
	if r.Allow("10.0.0.1") {
		t.Fatal("second request inside the window should be blocked")
	}
	time.Sleep(15 * time.Millisecond)
	if !r.Allow("10.0.0.1") {
		t.Error("request after the window should pass again")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(2, time.Minute)))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over the limit, got %d", w.Code)
	}
}
