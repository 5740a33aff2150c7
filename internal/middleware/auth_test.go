package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethiogpt/toolsgate/internal/auth"
)

type usageCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (u *usageCounter) RecordUsage(ctx context.Context, userID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.calls == nil {
		u.calls = make(map[string]int)
	}
	u.calls[userID]++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(auth.UserIDFromContext(r.Context())))
	})
}

func TestAuth(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	valid, err := tokens.Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	expired, err := auth.NewTokenIssuer("secret", -time.Minute).Issue("user-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "user-1"},
		{"lowercase scheme", "bearer " + valid, http.StatusOK, "user-1"},
		{"missing header", "", http.StatusUnauthorized, `{"error":"Missing or invalid token"}`},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, `{"error":"Missing or invalid token"}`},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized, `{"error":"Missing or invalid token"}`},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, `{"error":"Missing or invalid token"}`},
	}

	handler := Auth(AuthConfig{Logger: discardLogger(), Tokens: tokens})(echoUserHandler())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	valid, err := tokens.Issue("user-2")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	handler := OptionalAuth(AuthConfig{Logger: discardLogger(), Tokens: tokens})(echoUserHandler())

	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer junk", ""},
		{"Bearer " + valid, "user-2"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("header %q: status = %d, want 200", tt.header, rec.Code)
		}
		if got := rec.Body.String(); got != tt.want {
			t.Errorf("header %q: user = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestCountUsage_OnlySuccessfulAuthenticatedCalls(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	valid, err := tokens.Issue("user-3")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	usage := &usageCounter{}
	status := http.StatusOK
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	handler := OptionalAuth(AuthConfig{Logger: discardLogger(), Tokens: tokens})(CountUsage(usage)(inner))

	calls := []struct {
		header string
		status int
	}{
		{"Bearer " + valid, http.StatusOK},
		{"Bearer " + valid, http.StatusBadRequest},
		{"Bearer " + valid, http.StatusServiceUnavailable},
		{"", http.StatusOK},
		{"Bearer junk", http.StatusOK},
		{"Bearer " + valid, http.StatusCreated},
	}
	for _, c := range calls {
		status = c.status
		req := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		if c.header != "" {
			req.Header.Set("Authorization", c.header)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := usage.calls["user-3"]; got != 2 {
		t.Errorf("usage for user-3 = %d, want 2", got)
	}
	if len(usage.calls) != 1 {
		t.Errorf("unexpected usage entries: %v", usage.calls)
	}
}
