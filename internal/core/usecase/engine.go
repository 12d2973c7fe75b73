package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
	"github.com/kirillkom/premium-predictor/internal/core/ports"
	"github.com/kirillkom/premium-predictor/internal/infrastructure/resilience"
)

const (
	loadModelOperation   = "load_model"
	probabilityTolerance = 1e-6
)

type loadedClassifier struct {
	classifier ports.Classifier
}

// PredictionEngine lazily loads the classifier once and serves inference from
// it. A failed load leaves the handle empty so a later call can try again.
type PredictionEngine struct {
	loader   ports.ClassifierLoader
	executor *resilience.Executor
	metrics  ports.EngineMetrics

	mu     sync.Mutex
	handle atomic.Pointer[loadedClassifier]
}

func NewPredictionEngine(
	loader ports.ClassifierLoader,
	executor *resilience.Executor,
	metrics ports.EngineMetrics,
) *PredictionEngine {
	if executor == nil {
		executor = resilience.NewExecutor(resilience.Config{BreakerEnabled: false})
	}
	return &PredictionEngine{
		loader:   loader,
		executor: executor,
		metrics:  metrics,
	}
}

func (e *PredictionEngine) Loaded() bool {
	return e.handle.Load() != nil
}

// Describe returns the loaded classifier, loading it first if needed.
func (e *PredictionEngine) Describe(ctx context.Context) (ports.Classifier, error) {
	return e.classifier(ctx)
}

func (e *PredictionEngine) Infer(ctx context.Context, features domain.DerivedFeatures) (domain.PredictionResult, error) {
	clf, err := e.classifier(ctx)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	if err := checkFeatures(clf, features); err != nil {
		return domain.PredictionResult{}, domain.WrapError(domain.ErrFeatureMismatch, "infer", err)
	}

	label, err := clf.Predict(features)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("predict: %w", err)
	}
	probs, err := clf.PredictProba(features)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("predict proba: %w", err)
	}
	classes := clf.Classes()
	if len(probs) != len(classes) {
		return domain.PredictionResult{}, fmt.Errorf("classifier returned %d probabilities for %d classes", len(probs), len(classes))
	}
	if !slices.Contains(classes, label) {
		return domain.PredictionResult{}, fmt.Errorf("classifier predicted unknown class %q", label)
	}

	result := domain.PredictionResult{
		PredictedCategory:  label,
		ClassProbabilities: make(domain.ClassProbabilities, 0, len(classes)),
	}
	for i, class := range classes {
		result.ClassProbabilities = append(result.ClassProbabilities, domain.ClassProbability{
			Label:       class,
			Probability: probs[i],
		})
		if probs[i] > result.Confidence {
			result.Confidence = probs[i]
		}
	}
	if err := checkDistribution(result); err != nil {
		return domain.PredictionResult{}, err
	}
	return result, nil
}

// checkDistribution requires finite probabilities summing to one, with the
// predicted class holding the maximum.
func checkDistribution(result domain.PredictionResult) error {
	for _, p := range result.ClassProbabilities {
		if math.IsNaN(p.Probability) || math.IsInf(p.Probability, 0) || p.Probability < 0 {
			return fmt.Errorf("classifier returned invalid probability %v for class %q", p.Probability, p.Label)
		}
	}
	if sum := result.ClassProbabilities.Sum(); math.Abs(sum-1) > probabilityTolerance {
		return fmt.Errorf("classifier probabilities sum to %v", sum)
	}
	if p, _ := result.ClassProbabilities.Lookup(result.PredictedCategory); p < result.Confidence {
		return fmt.Errorf("predicted class %q holds %v below the maximum %v", result.PredictedCategory, p, result.Confidence)
	}
	return nil
}

// Warm attempts a load ahead of the first request.
func (e *PredictionEngine) Warm(ctx context.Context) error {
	_, err := e.classifier(ctx)
	return err
}

func (e *PredictionEngine) classifier(ctx context.Context) (ports.Classifier, error) {
	if h := e.handle.Load(); h != nil {
		return h.classifier, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if h := e.handle.Load(); h != nil {
		return h.classifier, nil
	}

	start := time.Now()
	var loaded ports.Classifier
	err := e.executor.Execute(ctx, loadModelOperation, func(ctx context.Context) error {
		clf, err := e.loader.Load(ctx)
		if err != nil {
			return err
		}
		loaded = clf
		return nil
	}, nil)
	duration := time.Since(start)
	if e.metrics != nil {
		e.metrics.ObserveModelLoad(duration, err)
	}
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			slog.Warn("model_load_skipped",
				"reason", "circuit_open",
				"breaker_state", e.executor.State(loadModelOperation),
			)
		} else {
			slog.Error("model_load_failed", "error", err, "duration_ms", float64(duration.Microseconds())/1000.0)
		}
		return nil, domain.WrapError(domain.ErrModelUnavailable, "load model", err)
	}

	e.handle.Store(&loadedClassifier{classifier: loaded})
	slog.Info("model_loaded",
		"model_type", loaded.ModelType(),
		"classes", loaded.Classes(),
		"duration_ms", float64(duration.Microseconds())/1000.0,
	)
	return loaded, nil
}

func checkFeatures(clf ports.Classifier, features domain.DerivedFeatures) error {
	expected := clf.FeatureNames()
	canonical := domain.FeatureNames()
	if len(expected) > 0 {
		sortedExpected := slices.Clone(expected)
		slices.Sort(sortedExpected)
		sortedCanonical := slices.Clone(canonical)
		slices.Sort(sortedCanonical)
		if !slices.Equal(sortedExpected, sortedCanonical) {
			return fmt.Errorf("artifact expects features %v, derived features are %v", expected, canonical)
		}
	}
	return features.Check()
}
