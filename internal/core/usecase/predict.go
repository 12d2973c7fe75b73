package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
	"github.com/kirillkom/premium-predictor/internal/core/ports"
)

const (
	probabilityPlaces = 4
	bmiPlaces         = 2
)

// PredictUseCase drives a request through validation, feature derivation and
// inference, then shapes the response.
type PredictUseCase struct {
	validator    ports.InputValidator
	deriver      ports.FeatureDeriver
	engine       ports.PredictionEngine
	modelVersion string
	now          func() time.Time
}

func NewPredictUseCase(
	validator ports.InputValidator,
	deriver ports.FeatureDeriver,
	engine ports.PredictionEngine,
	modelVersion string,
) *PredictUseCase {
	return &PredictUseCase{
		validator:    validator,
		deriver:      deriver,
		engine:       engine,
		modelVersion: modelVersion,
		now:          time.Now,
	}
}

func (uc *PredictUseCase) Predict(ctx context.Context, req domain.PredictRequest) (*domain.PredictionResponse, error) {
	input, err := uc.validator.Validate(req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, domain.WrapError(domain.ErrInvalidInput, "validate", err)
	}

	features := uc.deriver.Derive(input)
	slog.DebugContext(ctx, "prediction_features_derived",
		"age", input.Age,
		"city", input.City,
		"age_group", features.AgeGroup,
		"lifestyle_risk", features.LifestyleRisk,
		"city_tier", features.CityTier,
	)

	result, err := uc.engine.Infer(ctx, features)
	if err != nil {
		return nil, err
	}

	return uc.respond(result, features), nil
}

func (uc *PredictUseCase) ModelInfo(ctx context.Context) (*domain.ModelInfo, error) {
	clf, err := uc.engine.Describe(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.ModelInfo{
		ModelVersion: uc.modelVersion,
		ModelType:    clf.ModelType(),
		Classes:      clf.Classes(),
		Features:     clf.FeatureNames(),
	}, nil
}

// Health reports the handle state without triggering a load.
func (uc *PredictUseCase) Health(_ context.Context) domain.HealthStatus {
	loaded := uc.engine.Loaded()
	status := domain.HealthStatusUnhealthy
	if loaded {
		status = domain.HealthStatusHealthy
	}
	return domain.HealthStatus{
		Status:      status,
		Version:     uc.modelVersion,
		ModelLoaded: loaded,
		Timestamp:   float64(uc.now().UnixNano()) / float64(time.Second),
	}
}

func (uc *PredictUseCase) respond(result domain.PredictionResult, features domain.DerivedFeatures) *domain.PredictionResponse {
	probs := make(domain.ClassProbabilities, 0, len(result.ClassProbabilities))
	for _, p := range result.ClassProbabilities {
		probs = append(probs, domain.ClassProbability{
			Label:       p.Label,
			Probability: domain.Round(p.Probability, probabilityPlaces),
		})
	}

	snapshot := features
	snapshot.BMI = domain.Round(features.BMI, bmiPlaces)

	return &domain.PredictionResponse{
		PredictedCategory:  result.PredictedCategory,
		Confidence:         domain.Round(result.Confidence, probabilityPlaces),
		ClassProbabilities: probs,
		Metadata: &domain.PredictionMetadata{
			ModelVersion:  uc.modelVersion,
			InputFeatures: snapshot,
		},
	}
}
