package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/ethiogpt/toolsgate/internal/cache"
	"github.com/ethiogpt/toolsgate/internal/metrics"
)

func newTestLimiter(rec metrics.Recorder) *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Logger:  discardLogger(),
		Store:   cache.NewMemoryRateLimitStore(),
		Enabled: true,
		Metrics: rec,
	})
}

func mustLimit(t *testing.T, rl *RateLimiter, scope string, formatted ...string) http.Handler {
	t.Helper()
	mw, err := rl.Limit(scope, formatted...)
	if err != nil {
		t.Fatalf("Limit(%s): %v", scope, err)
	}
	return mw(okHandler())
}

func doRequest(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/image", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_RejectsAfterLimit(t *testing.T) {
	rec := metrics.NewInMemory()
	mw, err := newTestLimiter(rec).Limit("image", "2-H")
	if err != nil {
		t.Fatalf("Limit: %v", err)
	}
	handler := mw(okHandler())

	for i := 0; i < 2; i++ {
		w := doRequest(handler, "10.0.0.1:5555")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Limit"); got != "2" {
			t.Errorf("X-RateLimit-Limit = %q, want 2", got)
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != strconv.Itoa(1-i) {
			t.Errorf("X-RateLimit-Remaining = %q, want %d", got, 1-i)
		}
	}

	w := doRequest(handler, "10.0.0.1:5555")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"Rate limit exceeded","message":"Too many requests"}` {
		t.Errorf("body = %q", got)
	}
	retry, err := strconv.Atoi(w.Header().Get("Retry-After"))
	if err != nil || retry < 1 || retry > 3600 {
		t.Errorf("Retry-After = %q, want 1..3600", w.Header().Get("Retry-After"))
	}
	if got := rec.Snapshot().RateLimited["image"]; got != 1 {
		t.Errorf("rate limited counter = %d, want 1", got)
	}

	// Another client has its own budget.
	if w := doRequest(handler, "10.0.0.2:5555"); w.Code != http.StatusOK {
		t.Errorf("other IP: status = %d, want 200", w.Code)
	}
}

func TestRateLimit_ScopesAreIndependent(t *testing.T) {
	rl := newTestLimiter(nil)
	image := mustLimit(t, rl, "image", "1-H")
	tts := mustLimit(t, rl, "tts", "1-H")

	if w := doRequest(image, "10.0.0.1:1"); w.Code != http.StatusOK {
		t.Fatalf("image: status = %d", w.Code)
	}
	if w := doRequest(tts, "10.0.0.1:1"); w.Code != http.StatusOK {
		t.Errorf("tts should not share the image budget, status = %d", w.Code)
	}
	if w := doRequest(image, "10.0.0.1:1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("image: status = %d, want 429", w.Code)
	}
}

func TestRateLimit_MultipleRatesTightestWins(t *testing.T) {
	handler := mustLimit(t, newTestLimiter(nil), "default", "200-D", "3-H")

	for i := 0; i < 3; i++ {
		w := doRequest(handler, "10.0.0.9:1")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Limit"); got != "3" {
			t.Errorf("X-RateLimit-Limit = %q, want the hourly limit 3", got)
		}
	}

	if w := doRequest(handler, "10.0.0.9:1"); w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 once the hourly budget is gone", w.Code)
	}
}

func TestRateLimit_IgnoresForwardedForByDefault(t *testing.T) {
	handler := mustLimit(t, newTestLimiter(nil), "image", "2-H")

	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/image", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		want := http.StatusOK
		if i >= 2 {
			want = http.StatusTooManyRequests
		}
		if w.Code != want {
			t.Errorf("request %d: status = %d, want %d", i+1, w.Code, want)
		}
	}
}

func TestRateLimit_TrustForwardHeader(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Logger:             discardLogger(),
		Store:              cache.NewMemoryRateLimitStore(),
		Enabled:            true,
		TrustForwardHeader: true,
	})
	handler := mustLimit(t, rl, "image", "1-H")

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/image", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", "198.51.100."+strconv.Itoa(i))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("client %d behind the proxy: status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Store: cache.NewMemoryRateLimitStore(), Enabled: false})
	handler := mustLimit(t, rl, "image", "1-H")

	for i := 0; i < 3; i++ {
		if w := doRequest(handler, "10.0.0.1:1"); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}
}

func TestRateLimit_InvalidRate(t *testing.T) {
	if _, err := newTestLimiter(nil).Limit("image", "ten-per-hour"); err == nil {
		t.Error("expected error for malformed rate")
	}
}

func TestRetryAfterSeconds_Floor(t *testing.T) {
	if got := retryAfterSeconds(0); got != 1 {
		t.Errorf("retryAfterSeconds(past) = %d, want 1", got)
	}
}
