package model

import (
	"fmt"
	"math"
	"slices"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
)

const defaultModelType = "SoftmaxRegression"

// SoftmaxClassifier scores each class linearly and normalizes with softmax.
// Categories missing from the artifact contribute nothing to the logits.
type SoftmaxClassifier struct {
	artifact *Artifact
}

func NewSoftmaxClassifier(a *Artifact) (*SoftmaxClassifier, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &SoftmaxClassifier{artifact: a}, nil
}

func (c *SoftmaxClassifier) Classes() []string {
	return slices.Clone(c.artifact.Classes)
}

func (c *SoftmaxClassifier) FeatureNames() []string {
	return slices.Clone(c.artifact.Features)
}

func (c *SoftmaxClassifier) ModelType() string {
	if c.artifact.ModelType == "" {
		return defaultModelType
	}
	return c.artifact.ModelType
}

func (c *SoftmaxClassifier) Predict(features domain.DerivedFeatures) (string, error) {
	probs, err := c.PredictProba(features)
	if err != nil {
		return "", err
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return c.artifact.Classes[best], nil
}

func (c *SoftmaxClassifier) PredictProba(features domain.DerivedFeatures) ([]float64, error) {
	logits, err := c.logits(features)
	if err != nil {
		return nil, err
	}
	for k, l := range logits {
		if math.IsNaN(l) || math.IsInf(l, 0) {
			return nil, fmt.Errorf("score for class %q is not finite", c.artifact.Classes[k])
		}
	}
	return softmax(logits), nil
}

func (c *SoftmaxClassifier) logits(features domain.DerivedFeatures) ([]float64, error) {
	a := c.artifact
	logits := slices.Clone(a.Intercepts)

	for _, name := range a.Features {
		if term, ok := a.Numeric[name]; ok {
			value, ok := features.Numeric(name)
			if !ok {
				return nil, fmt.Errorf("feature %q is not numeric", name)
			}
			z := (value - term.Mean) / term.Scale
			for k, w := range term.Weights {
				logits[k] += w * z
			}
			continue
		}

		value, ok := features.Categorical(name)
		if !ok {
			return nil, fmt.Errorf("feature %q is not categorical", name)
		}
		weights, known := a.Categorical[name][value]
		if !known {
			continue
		}
		for k, w := range weights {
			logits[k] += w
		}
	}
	return logits, nil
}

func softmax(logits []float64) []float64 {
	maxLogit := math.Inf(-1)
	for _, l := range logits {
		maxLogit = math.Max(maxLogit, l)
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(l - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
