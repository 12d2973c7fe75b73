package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/kirillkom/premium-predictor/internal/config"
	"github.com/kirillkom/premium-predictor/internal/core/features"
	"github.com/kirillkom/premium-predictor/internal/core/ports"
	"github.com/kirillkom/premium-predictor/internal/core/usecase"
	"github.com/kirillkom/premium-predictor/internal/core/validation"
	"github.com/kirillkom/premium-predictor/internal/infrastructure/model"
	"github.com/kirillkom/premium-predictor/internal/infrastructure/resilience"
	"github.com/kirillkom/premium-predictor/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/premium-predictor/internal/observability/metrics"
)

const serviceName = "premium-api"

type App struct {
	Config config.Config

	Metrics   *metrics.HTTPServerMetrics
	Engine    *usecase.PredictionEngine
	Predictor ports.PremiumPredictor
}

// New wires the prediction stack. A missing model artifact is not fatal: the
// service starts unhealthy and retries the load on demand.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	tiers := features.DefaultCityTiers()
	if cfg.CityTiersPath != "" {
		loaded, err := features.LoadCityTiers(cfg.CityTiersPath)
		if err != nil {
			return nil, fmt.Errorf("load city tiers: %w", err)
		}
		tiers = loaded
	}
	tier1, tier2 := tiers.Size()
	slog.Info("city_tiers_ready", "tier_1", tier1, "tier_2", tier2, "source", tierSource(cfg.CityTiersPath))

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	modelMetrics := metrics.NewModelMetrics(serviceName, httpMetrics.Registerer())

	storage := localfs.New(filepath.Dir(cfg.ModelPath))
	loader := model.NewLoader(storage, filepath.Base(cfg.ModelPath))
	executor := resilience.NewExecutor(resilience.Config{
		BreakerEnabled:          cfg.ModelLoadBreakerEnabled,
		BreakerFailureThreshold: uint32(max(cfg.ModelLoadBreakerFailures, 0)),
		BreakerOpenTimeout:      time.Duration(cfg.ModelLoadBreakerOpenSeconds) * time.Second,
	})
	engine := usecase.NewPredictionEngine(loader, executor, modelMetrics)

	predictor := usecase.NewPredictUseCase(
		validation.New(),
		features.NewDeriver(tiers),
		engine,
		cfg.ModelVersion,
	)

	if cfg.ModelPreload {
		if err := engine.Warm(ctx); err != nil {
			slog.Warn("model_preload_failed", "model_path", cfg.ModelPath, "error", err)
		}
	}

	return &App{
		Config:    cfg,
		Metrics:   httpMetrics,
		Engine:    engine,
		Predictor: predictor,
	}, nil
}

func tierSource(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}
