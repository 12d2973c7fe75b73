package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
	"github.com/kirillkom/premium-predictor/internal/core/features"
	"github.com/kirillkom/premium-predictor/internal/core/ports"
	"github.com/kirillkom/premium-predictor/internal/core/validation"
)

type validatorFake struct {
	err error
}

func (f validatorFake) Validate(domain.PredictRequest) (domain.RawUserInput, error) {
	if f.err != nil {
		return domain.RawUserInput{}, f.err
	}
	return domain.RawUserInput{Age: 35, Weight: 70.5, Height: 1.75, IncomeLPA: 12.5, City: "Mumbai", Occupation: domain.OccupationPrivateJob}, nil
}

type deriverFake struct {
	calls int
}

func (f *deriverFake) Derive(domain.RawUserInput) domain.DerivedFeatures {
	f.calls++
	return sampleFeatures()
}

type engineFake struct {
	calls  int
	loaded bool
	err    error
	result domain.PredictionResult
	clf    ports.Classifier
}

func (f *engineFake) Infer(context.Context, domain.DerivedFeatures) (domain.PredictionResult, error) {
	f.calls++
	if f.err != nil {
		return domain.PredictionResult{}, f.err
	}
	return f.result, nil
}

func (f *engineFake) Describe(context.Context) (ports.Classifier, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.clf, nil
}

func (f *engineFake) Loaded() bool { return f.loaded }

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
func stringPtr(v string) *string  { return &v }

func referenceRequest() domain.PredictRequest {
	return domain.PredictRequest{
		Age:        intPtr(35),
		Weight:     floatPtr(70.5),
		Height:     floatPtr(1.75),
		IncomeLPA:  floatPtr(12.5),
		Smoker:     boolPtr(false),
		City:       stringPtr("Mumbai"),
		Occupation: stringPtr("private_job"),
	}
}

func TestPredictValidationFailureSkipsDeriverAndEngine(t *testing.T) {
	deriver := &deriverFake{}
	engine := &engineFake{}
	verr := &domain.ValidationError{Violations: []domain.Violation{{Field: "age", Message: "field required"}}}
	uc := NewPredictUseCase(validatorFake{err: verr}, deriver, engine, "1.0.0")

	_, err := uc.Predict(context.Background(), domain.PredictRequest{})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	var got *domain.ValidationError
	if !errors.As(err, &got) || len(got.Violations) != 1 {
		t.Fatalf("expected violations to be preserved, got %v", err)
	}
	if deriver.calls != 0 || engine.calls != 0 {
		t.Fatalf("validation failure must not reach deriver (%d) or engine (%d)", deriver.calls, engine.calls)
	}
}

func TestPredictPropagatesEngineFailure(t *testing.T) {
	engine := &engineFake{err: domain.WrapError(domain.ErrModelUnavailable, "load model", errors.New("missing"))}
	uc := NewPredictUseCase(validatorFake{}, &deriverFake{}, engine, "1.0.0")

	resp, err := uc.Predict(context.Background(), referenceRequest())
	if !domain.IsKind(err, domain.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
	if resp != nil {
		t.Fatalf("expected no partial response")
	}
}

func TestPredictShapesRoundedResponse(t *testing.T) {
	engine := &engineFake{result: domain.PredictionResult{
		PredictedCategory: "Low",
		Confidence:        0.711116,
		ClassProbabilities: domain.ClassProbabilities{
			{Label: "High", Probability: 0.123449},
			{Label: "Low", Probability: 0.711116},
			{Label: "Medium", Probability: 0.165435},
		},
	}}
	uc := NewPredictUseCase(validatorFake{}, &deriverFake{}, engine, "2.1.0")

	resp, err := uc.Predict(context.Background(), referenceRequest())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if resp.Confidence != 0.7111 {
		t.Fatalf("expected confidence rounded to 4 places, got %v", resp.Confidence)
	}
	if p, _ := resp.ClassProbabilities.Lookup("High"); p != 0.1234 {
		t.Fatalf("expected High rounded to 0.1234, got %v", p)
	}
	if p, _ := resp.ClassProbabilities.Lookup("Medium"); p != 0.1654 {
		t.Fatalf("expected Medium rounded to 0.1654, got %v", p)
	}
	if resp.Metadata == nil || resp.Metadata.ModelVersion != "2.1.0" {
		t.Fatalf("expected model version in metadata, got %+v", resp.Metadata)
	}
	if resp.Metadata.InputFeatures.BMI != 23.02 {
		t.Fatalf("expected rounded bmi snapshot, got %v", resp.Metadata.InputFeatures.BMI)
	}
}

func TestPredictReferenceScenarioWithRealComponents(t *testing.T) {
	engine := NewPredictionEngine(&loaderFake{classifier: newClassifierFake()}, nil, nil)
	uc := NewPredictUseCase(validation.New(), features.NewDeriver(features.DefaultCityTiers()), engine, "1.0.0")

	resp, err := uc.Predict(context.Background(), referenceRequest())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	in := resp.Metadata.InputFeatures
	if in.BMI != 23.02 || in.AgeGroup != domain.AgeGroupAdult || in.LifestyleRisk != domain.LifestyleRiskLow || in.CityTier != 1 {
		t.Fatalf("unexpected derived snapshot %+v", in)
	}
	if resp.Confidence < 0 || resp.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", resp.Confidence)
	}
	if len(resp.ClassProbabilities) != 3 {
		t.Fatalf("expected full class mapping, got %v", resp.ClassProbabilities)
	}
	if math.Abs(resp.ClassProbabilities.Sum()-1) > 1e-3 {
		t.Fatalf("expected probabilities to sum to 1, got %v", resp.ClassProbabilities.Sum())
	}
	if _, ok := resp.ClassProbabilities.Lookup(resp.PredictedCategory); !ok {
		t.Fatalf("predicted category %q missing from distribution", resp.PredictedCategory)
	}
}

func TestModelInfoUsesEngineClassifier(t *testing.T) {
	uc := NewPredictUseCase(validatorFake{}, &deriverFake{}, &engineFake{clf: newClassifierFake()}, "1.0.0")

	info, err := uc.ModelInfo(context.Background())
	if err != nil {
		t.Fatalf("ModelInfo() error = %v", err)
	}
	if info.ModelType != "FakeClassifier" || len(info.Classes) != 3 || len(info.Features) != 6 || info.ModelVersion != "1.0.0" {
		t.Fatalf("unexpected model info %+v", info)
	}
}

func TestHealthReflectsHandleState(t *testing.T) {
	engine := &engineFake{}
	uc := NewPredictUseCase(validatorFake{}, &deriverFake{}, engine, "1.0.0")
	uc.now = func() time.Time { return time.Unix(1700000000, 500000000) }

	health := uc.Health(context.Background())
	if health.Status != domain.HealthStatusUnhealthy || health.ModelLoaded {
		t.Fatalf("expected unhealthy before load, got %+v", health)
	}
	if health.Timestamp != 1700000000.5 {
		t.Fatalf("expected fractional unix timestamp, got %v", health.Timestamp)
	}

	engine.loaded = true
	health = uc.Health(context.Background())
	if health.Status != domain.HealthStatusHealthy || !health.ModelLoaded || health.Version != "1.0.0" {
		t.Fatalf("expected healthy after load, got %+v", health)
	}
}
