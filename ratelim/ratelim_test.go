package ratelim

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func okHandler(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
}

func TestLimitAllowsBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	handler := rl.Limit(okHandler)

	var last int
	for i := 0; i < rl.burst+1; i++ {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		handler(w, r, nil)
		last = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestLimitIsPerIP(t *testing.T) {
	rl := NewRateLimiter()
	defer rl.Stop()
	handler := rl.Limit(okHandler)

	for i := 0; i < rl.burst; i++ {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		handler(w, r, nil)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()
	handler(w, r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStopReleasesCleanupGoroutine(t *testing.T) {
	before := runtime.NumGoroutine()
	rl := NewRateLimiter()
	rl.Stop()
	rl.Stop()

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, time.Second, 10*time.Millisecond)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.4:1234"
	w := httptest.NewRecorder()
	rl.Limit(okHandler)(w, r, nil)
	assert.Equal(t, http.StatusOK, w.Code, "limiter stays usable after Stop")
}
