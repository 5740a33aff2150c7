package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ulule/limiter/v3"

	"github.com/ethiogpt/toolsgate/internal/cache"
	"github.com/ethiogpt/toolsgate/internal/metrics"
)

// RateLimitConfig holds configuration for rate limiting middleware.
type RateLimitConfig struct {
	Logger  *slog.Logger
	Store   limiter.Store
	Enabled bool
	Metrics metrics.Recorder
	// TrustForwardHeader uses X-Forwarded-For / X-Real-IP for the client IP.
	TrustForwardHeader bool
}

// RateLimiter builds per-scope, per-IP rate limit middleware over one store.
type RateLimiter struct {
	cfg RateLimitConfig
}

// NewRateLimiter creates a RateLimiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &RateLimiter{cfg: cfg}
}

// Limit returns middleware enforcing every formatted rate ("10-H", "200-D")
// for the scope. A request is rejected when any of the rates is exhausted.
func (rl *RateLimiter) Limit(scope string, formatted ...string) (func(http.Handler) http.Handler, error) {
	limiters := make([]*limiter.Limiter, 0, len(formatted))
	for _, f := range formatted {
		rate, err := limiter.NewRateFromFormatted(f)
		if err != nil {
			return nil, fmt.Errorf("rate limit %s: invalid rate %q: %w", scope, f, err)
		}
		limiters = append(limiters, limiter.New(rl.cfg.Store, rate,
			limiter.WithTrustForwardHeader(rl.cfg.TrustForwardHeader)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.cfg.Enabled || len(limiters) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			var (
				tightest *limiter.Context
				reached  *limiter.Context
			)
			for _, lim := range limiters {
				ip := lim.GetIPKey(r)
				key := cache.RateLimitKey(scope, lim.Rate.Formatted, ip)

				lctx, err := lim.Get(r.Context(), key)
				if err != nil {
					rl.cfg.Logger.Error("rate limit check failed",
						slog.String("error", err.Error()),
						slog.String("scope", scope),
					)
					// Fail open - allow request
					continue
				}

				if lctx.Reached && reached == nil {
					reached = &lctx
				}
				if tightest == nil || lctx.Remaining < tightest.Remaining {
					c := lctx
					tightest = &c
				}
			}

			if reached != nil {
				setRateLimitHeaders(w, *reached)
				retryAfter := retryAfterSeconds(reached.Reset)

				rl.cfg.Metrics.IncRateLimited(scope)
				rl.cfg.Logger.Warn("rate limit exceeded",
					slog.String("scope", scope),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Int64("retry_after_seconds", retryAfter),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				writeRateLimitError(w)
				return
			}

			if tightest != nil {
				setRateLimitHeaders(w, *tightest)
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}

// setRateLimitHeaders sets standard rate limit response headers.
func setRateLimitHeaders(w http.ResponseWriter, lctx limiter.Context) {
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
}

func retryAfterSeconds(reset int64) int64 {
	seconds := reset - time.Now().Unix()
	if seconds < 1 {
		return 1
	}
	return seconds
}

// writeRateLimitError writes a 429 Too Many Requests response.
func writeRateLimitError(w http.ResponseWriter) {
	writeJSON(w, http.StatusTooManyRequests, map[string]string{
		"error":   "Rate limit exceeded",
		"message": "Too many requests",
	})
}
