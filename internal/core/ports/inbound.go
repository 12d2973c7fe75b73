package ports

import (
	"context"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
)

// PremiumPredictor is the inbound contract served over HTTP.
type PremiumPredictor interface {
	Predict(ctx context.Context, req domain.PredictRequest) (*domain.PredictionResponse, error)
	ModelInfo(ctx context.Context) (*domain.ModelInfo, error)
	Health(ctx context.Context) domain.HealthStatus
}
