package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ulule/limiter/v3"

	"github.com/ethiogpt/toolsgate/internal/artifact"
	"github.com/ethiogpt/toolsgate/internal/auth"
	"github.com/ethiogpt/toolsgate/internal/cache"
	"github.com/ethiogpt/toolsgate/internal/config"
	"github.com/ethiogpt/toolsgate/internal/handler"
	"github.com/ethiogpt/toolsgate/internal/metrics"
	"github.com/ethiogpt/toolsgate/internal/middleware"
	"github.com/ethiogpt/toolsgate/internal/model"
	"github.com/ethiogpt/toolsgate/internal/repository"
	"github.com/ethiogpt/toolsgate/internal/service"
)

// routerDeps carries everything the HTTP surface is built from.
type routerDeps struct {
	cfg         *config.Config
	logger      *slog.Logger
	users       *repository.Repository
	cache       *cache.Cache
	rateStore   limiter.Store
	metrics     metrics.Recorder
	prometheus  *metrics.PrometheusRecorder
	tokens      *auth.TokenIssuer
	adminSecret *auth.AdminSecret
	authService *service.AuthService
	toolService *service.ToolService
	tools       *service.ToolRegistry
	artifacts   *artifact.Store
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) (*chi.Mux, error) {
	cfg := d.cfg
	logger := d.logger

	h := handler.New()
	toolHandler := handler.NewToolHandler(d.toolService, logger)
	authHandler := handler.NewAuthHandler(d.authService, logger)
	adminHandler := handler.NewAdminHandler(d.authService, d.tools, logger)
	fileHandler := handler.NewFileHandler(d.artifacts, logger)

	// A nil *cache.Cache must not reach the interface as a non-nil checker.
	var cacheChecker handler.HealthChecker
	if d.cache != nil {
		cacheChecker = d.cache
	}
	healthHandler := handler.NewHealthHandler(d.users, cacheChecker)

	r := chi.NewRouter()

	// Global middleware. RemoteAddr is left untouched: the limiter reads
	// forwarding headers itself, and only when TRUST_PROXY is set.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.SecureHeaders(!cfg.IsDevelopment()))
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health checks and metrics are never rate limited.
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	if d.prometheus != nil {
		r.Get("/metrics", handler.NewMetricsHandler(d.prometheus.Registry(), logger).Metrics)
	}
	r.Get("/", h.Index)

	rl := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Logger:  logger,
		Store:   d.rateStore,
		Enabled: cfg.RateLimitEnabled,
		Metrics: d.metrics,
		// Off unless a proxy in front overwrites X-Forwarded-For.
		TrustForwardHeader: cfg.TrustProxy,
	})

	// Routes without their own limit get the default rates, counted per route.
	limits := map[string][]string{
		"image":     {cfg.RateLimitImage},
		"tts":       {cfg.RateLimitTTS},
		"stt":       {cfg.RateLimitSTT},
		"translate": {cfg.RateLimitTranslate},
		"write":     {cfg.RateLimitWrite},
	}
	limit := make(map[string]func(http.Handler) http.Handler)
	for _, scope := range []string{
		"chat", "image", "tts", "stt", "translate", "write", "generate_resume",
		"register", "login", "me", "files", "admin",
	} {
		rates, ok := limits[scope]
		if !ok {
			rates = cfg.DefaultRateLimits()
		}
		mw, err := rl.Limit(scope, rates...)
		if err != nil {
			return nil, err
		}
		limit[scope] = mw
	}

	authCfg := middleware.AuthConfig{
		Logger: logger,
		Tokens: d.tokens,
	}

	countUsage := middleware.CountUsage(d.authService)
	tool := func(name string) func(http.Handler) http.Handler {
		return middleware.RequireTool(d.tools, name, d.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.With(limit["files"]).Get("/files/{filename}", fileHandler.Serve)

		// Accounts
		r.With(limit["register"]).Post("/register", authHandler.Register)
		r.With(limit["login"]).Post("/login", authHandler.Login)
		r.With(limit["me"], middleware.Auth(authCfg)).Get("/me", authHandler.Me)

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(limit["admin"])
			r.Use(middleware.RequireAdminSecret(d.adminSecret, logger))
			r.Get("/stats", adminHandler.Stats)
			r.Get("/tools", adminHandler.ListTools)
			r.Post("/tools/{name}", adminHandler.ToggleTool)
		})

		// Tools. A valid bearer token charges successful calls to the user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(authCfg))

			r.With(limit["chat"], tool(model.ToolChat), countUsage).Post("/chat", toolHandler.Chat)
			r.With(limit["image"], tool(model.ToolImage), countUsage).Post("/image", toolHandler.Image)
			r.With(limit["translate"], tool(model.ToolTranslator), countUsage).Post("/translate", toolHandler.Translate)
			r.With(limit["tts"], tool(model.ToolTTS), countUsage).Post("/tts", toolHandler.TTS)
			r.With(limit["stt"], tool(model.ToolTTS), countUsage).Post("/stt", toolHandler.STT)
			r.With(limit["write"], tool(model.ToolWriter), countUsage).Post("/write", toolHandler.Write)
			r.With(limit["generate_resume"], tool(model.ToolWriter), countUsage).Post("/generate_resume", toolHandler.Resume)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r, nil
}
