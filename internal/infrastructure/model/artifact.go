package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Artifact is the on-disk form of a softmax regression premium model.
type Artifact struct {
	ModelType   string                          `json:"model_type" yaml:"model_type"`
	Classes     []string                        `json:"classes" yaml:"classes"`
	Features    []string                        `json:"features" yaml:"features"`
	Intercepts  []float64                       `json:"intercepts" yaml:"intercepts"`
	Numeric     map[string]NumericTerm          `json:"numeric" yaml:"numeric"`
	Categorical map[string]map[string][]float64 `json:"categorical" yaml:"categorical"`
}

// NumericTerm standardizes a value as (x-mean)/scale before weighting it.
type NumericTerm struct {
	Mean    float64   `json:"mean" yaml:"mean"`
	Scale   float64   `json:"scale" yaml:"scale"`
	Weights []float64 `json:"weights" yaml:"weights"`
}

// DecodeArtifact picks the decoder from the artifact key's extension.
func DecodeArtifact(key string, raw []byte) (*Artifact, error) {
	var a Artifact
	switch strings.ToLower(filepath.Ext(key)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode yaml artifact: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return nil, fmt.Errorf("decode json artifact: %w", err)
		}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks the artifact is internally consistent.
func (a *Artifact) Validate() error {
	if len(a.Classes) < 2 {
		return errors.New("artifact: at least two classes are required")
	}
	seen := make(map[string]struct{}, len(a.Classes))
	for _, class := range a.Classes {
		if class == "" {
			return errors.New("artifact: empty class label")
		}
		if _, dup := seen[class]; dup {
			return fmt.Errorf("artifact: duplicate class %q", class)
		}
		seen[class] = struct{}{}
	}
	if len(a.Features) == 0 {
		return errors.New("artifact: feature list is empty")
	}
	if len(a.Intercepts) != len(a.Classes) {
		return fmt.Errorf("artifact: %d intercepts for %d classes", len(a.Intercepts), len(a.Classes))
	}

	for _, name := range a.Features {
		term, numeric := a.Numeric[name]
		levels, categorical := a.Categorical[name]
		switch {
		case numeric && categorical:
			return fmt.Errorf("artifact: feature %q is both numeric and categorical", name)
		case numeric:
			if term.Scale == 0 || math.IsNaN(term.Scale) {
				return fmt.Errorf("artifact: feature %q has zero scale", name)
			}
			if len(term.Weights) != len(a.Classes) {
				return fmt.Errorf("artifact: feature %q has %d weights for %d classes", name, len(term.Weights), len(a.Classes))
			}
		case categorical:
			if len(levels) == 0 {
				return fmt.Errorf("artifact: feature %q has no categories", name)
			}
			for level, weights := range levels {
				if len(weights) != len(a.Classes) {
					return fmt.Errorf("artifact: feature %q category %q has %d weights for %d classes", name, level, len(weights), len(a.Classes))
				}
			}
		default:
			return fmt.Errorf("artifact: feature %q has no terms", name)
		}
	}
	return nil
}
