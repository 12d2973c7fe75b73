package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/kirillkom/premium-predictor/internal/adapters/http"
	"github.com/kirillkom/premium-predictor/internal/bootstrap"
	"github.com/kirillkom/premium-predictor/internal/config"
	"github.com/kirillkom/premium-predictor/internal/observability/logging"
)

func main() {
	envErr := godotenv.Load()
	cfg := config.Load()
	logger := logging.NewLogger("premium-api", cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		slog.Warn("dotenv_load_failed", "error", envErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	router := httpadapter.NewRouter(cfg, app.Predictor, app.Metrics).Handler()
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("api_listening",
			"addr", cfg.Addr(),
			"environment", cfg.Environment,
			"model_path", cfg.ModelPath,
			"model_version", cfg.ModelVersion,
			"model_loaded", app.Engine.Loaded(),
			"rate_limit_per_minute", cfg.RateLimitPerMinute,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
	slog.Info("api_stopped")
}
