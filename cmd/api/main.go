// Package main is the entrypoint for the Ethio GPT Tools gateway.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/ethiogpt/toolsgate/internal/artifact"
	"github.com/ethiogpt/toolsgate/internal/auth"
	"github.com/ethiogpt/toolsgate/internal/cache"
	"github.com/ethiogpt/toolsgate/internal/config"
	"github.com/ethiogpt/toolsgate/internal/inference"
	"github.com/ethiogpt/toolsgate/internal/metrics"
	"github.com/ethiogpt/toolsgate/internal/repository"
	"github.com/ethiogpt/toolsgate/internal/server"
	"github.com/ethiogpt/toolsgate/internal/service"
)

func main() {
	ctx := context.Background()

	if err := config.LoadDotEnv(); err != nil {
		slog.Warn("ignoring .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Users live in memory for the lifetime of the process.
	repo := repository.New()
	defer repo.Close()

	// Redis is optional; without it rate limit counters stay in memory.
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")
	}

	rateStore, err := cache.RateLimitStore(cacheClient)
	if err != nil {
		logger.Error("failed to create rate limit store", "error", err)
		os.Exit(1)
	}

	var recorder metrics.Recorder = metrics.NewNoop()
	var prom *metrics.PrometheusRecorder
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	if cfg.HFAPIKey == "" {
		logger.Warn("HF_API_KEY is not set; inference calls will fail")
	}
	client := inference.New(inference.Options{
		APIKey:     cfg.HFAPIKey,
		BaseURL:    cfg.HFBaseURL,
		Timeout:    cfg.InferenceTimeout,
		Logger:     logger,
		Metrics:    recorder,
		MaxRetries: cfg.InferenceMaxRetries,
	})

	var chat inference.ChatCompleter
	switch cfg.ChatBackend {
	case config.ChatBackendOpenAI:
		chat = inference.NewOpenAIChat(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel, cfg.InferenceTimeout, logger)
	default:
		chat = inference.NewTextGenerationChat(client, cfg.ChatModel)
	}

	store := artifact.NewStore(cfg.TempDir, logger, recorder)
	janitor := artifact.NewJanitor(cfg.TempDir, cfg.ArtifactTTL, cfg.ArtifactSweepInterval, logger, recorder)

	adminSecret, err := auth.NewAdminSecret(cfg.AdminSecret)
	if err != nil {
		logger.Error("failed to hash admin secret", "error", err)
		os.Exit(1)
	}
	if cfg.IsProduction() && cfg.AdminSecret == "admin-secret-change-me" {
		logger.Warn("ADMIN_SECRET is the default value")
	}

	validator := service.NewValidator()
	tokens := auth.NewTokenIssuer(cfg.JWTSecretKey, cfg.JWTAccessTokenExpiry)
	authService := service.NewAuthService(repo, tokens, validator, logger, recorder)
	toolService := service.NewToolService(service.ToolServiceOptions{
		Chat:      chat,
		Inference: client,
		Artifacts: store,
		Validator: validator,
		Logger:    logger,
		Metrics:   recorder,
	})

	deps := routerDeps{
		cfg:         cfg,
		logger:      logger,
		users:       repo,
		cache:       cacheClient,
		rateStore:   rateStore,
		metrics:     recorder,
		prometheus:  prom,
		tokens:      tokens,
		adminSecret: adminSecret,
		authService: authService,
		toolService: toolService,
		tools:       service.NewToolRegistry(),
		artifacts:   store,
	}
	r, err := setupRouter(deps)
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := server.New(r, server.Options{
		Addr:            server.Addr(cfg.AppPort),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	go func() {
		if err := janitor.Run(context.Background()); err != nil {
			logger.Error("artifact janitor stopped", "error", err)
		}
	}()
	srv.OnShutdown("artifact-janitor", janitor.Shutdown)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"chat_backend", cfg.ChatBackend,
		"redis", cacheClient != nil,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
