package middleware

import (
	"net/http"
)

// apiHeaders go on every response. The gateway only returns JSON and
// generated media, so nothing it serves should be framed, scripted or cached.
var apiHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; sandbox"},
	// Frontends on other origins embed the generated images and audio.
	{"Cross-Origin-Resource-Policy", "cross-origin"},
	// The file handler replaces this for generated artifacts.
	{"Cache-Control", "no-store"},
}

const hstsHeader = "max-age=31536000; includeSubDomains"

// SecureHeaders sets the fixed API response headers. Strict-Transport-Security
// is added only when hsts is true, which main ties to non-development envs.
func SecureHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range apiHeaders {
				h.Set(kv[0], kv[1])
			}
			if hsts {
				h.Set("Strict-Transport-Security", hstsHeader)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize answers 413 when the declared Content-Length is over limit and
// caps the body otherwise, so decoders see *http.MaxBytesError past it.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
