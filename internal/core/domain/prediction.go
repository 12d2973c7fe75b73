package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

type ClassProbability struct {
	Label       string
	Probability float64
}

// ClassProbabilities keeps the classifier's class order. It encodes as a JSON
// object whose keys appear in that order.
type ClassProbabilities []ClassProbability

func (c ClassProbabilities) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(p.Probability)
		if err != nil {
			return nil, fmt.Errorf("class %q: %w", p.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *ClassProbabilities) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("class probabilities: expected object, got %v", tok)
	}

	out := ClassProbabilities{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("class probabilities: expected label, got %v", tok)
		}
		var p float64
		if err := dec.Decode(&p); err != nil {
			return fmt.Errorf("class probabilities: %q: %w", label, err)
		}
		out = append(out, ClassProbability{Label: label, Probability: p})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}

func (c ClassProbabilities) Labels() []string {
	labels := make([]string, 0, len(c))
	for _, p := range c {
		labels = append(labels, p.Label)
	}
	return labels
}

func (c ClassProbabilities) Sum() float64 {
	var sum float64
	for _, p := range c {
		sum += p.Probability
	}
	return sum
}

func (c ClassProbabilities) Lookup(label string) (float64, bool) {
	for _, p := range c {
		if p.Label == label {
			return p.Probability, true
		}
	}
	return 0, false
}

// PredictionResult is the engine output at full precision.
type PredictionResult struct {
	PredictedCategory  string
	Confidence         float64
	ClassProbabilities ClassProbabilities
}

type PredictionMetadata struct {
	ModelVersion  string          `json:"model_version"`
	InputFeatures DerivedFeatures `json:"input_features"`
}

type PredictionResponse struct {
	PredictedCategory  string              `json:"predicted_category"`
	Confidence         float64             `json:"confidence"`
	ClassProbabilities ClassProbabilities  `json:"class_probabilities"`
	Metadata           *PredictionMetadata `json:"metadata,omitempty"`
}

type ModelInfo struct {
	ModelVersion string   `json:"model_version"`
	ModelType    string   `json:"model_type"`
	Classes      []string `json:"classes"`
	Features     []string `json:"features"`
}

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
)

type HealthStatus struct {
	Status      string  `json:"status"`
	Version     string  `json:"version"`
	ModelLoaded bool    `json:"model_loaded"`
	Timestamp   float64 `json:"timestamp"`
}

type ServiceInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}

// Round rounds half away from zero to the given number of decimal places.
func Round(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
