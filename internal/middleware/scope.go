package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ethiogpt/toolsgate/internal/auth"
	"github.com/ethiogpt/toolsgate/internal/metrics"
)

// AdminSecretHeader carries the shared admin secret.
const AdminSecretHeader = "X-Admin-Secret"

// adminSecretParam is the query-string alternative to AdminSecretHeader.
const adminSecretParam = "admin_secret"

// RequireAdminSecret rejects requests that do not present the admin secret
// in the X-Admin-Secret header or the admin_secret query parameter.
func RequireAdminSecret(secret *auth.AdminSecret, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidate := r.Header.Get(AdminSecretHeader)
			if candidate == "" {
				candidate = r.URL.Query().Get(adminSecretParam)
			}

			if !secret.Matches(candidate) {
				logger.Warn("admin access denied",
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Bool("secret_present", candidate != ""),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusForbidden, "Admin access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ToolChecker reports whether a tool accepts requests.
type ToolChecker interface {
	IsEnabled(name string) bool
}

// RequireTool returns 503 while the named tool is disabled.
func RequireTool(tools ToolChecker, name string, recorder metrics.Recorder) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tools.IsEnabled(name) {
				recorder.IncToolRequest(name, "disabled")
				writeError(w, http.StatusServiceUnavailable, "Tool "+name+" is currently disabled")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
