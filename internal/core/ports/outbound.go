package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
)

// Classifier is the capability set required from any loaded model artifact.
type Classifier interface {
	Predict(features domain.DerivedFeatures) (string, error)
	PredictProba(features domain.DerivedFeatures) ([]float64, error)
	Classes() []string
	FeatureNames() []string
	ModelType() string
}

// ClassifierLoader reads and decodes the model artifact.
type ClassifierLoader interface {
	Load(ctx context.Context) (Classifier, error)
}

// ArtifactSource opens stored model artifacts by key.
type ArtifactSource interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// InputValidator turns a wire request into a validated input.
type InputValidator interface {
	Validate(req domain.PredictRequest) (domain.RawUserInput, error)
}

// FeatureDeriver computes classifier features from validated input.
type FeatureDeriver interface {
	Derive(in domain.RawUserInput) domain.DerivedFeatures
}

// PredictionEngine owns the classifier handle.
type PredictionEngine interface {
	Infer(ctx context.Context, features domain.DerivedFeatures) (domain.PredictionResult, error)
	Describe(ctx context.Context) (Classifier, error)
	Loaded() bool
}

// EngineMetrics records model lifecycle observations.
type EngineMetrics interface {
	ObserveModelLoad(duration time.Duration, err error)
}
