package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
)

func referenceInput() domain.RawUserInput {
	return domain.RawUserInput{
		Age:        35,
		Weight:     70.5,
		Height:     1.75,
		IncomeLPA:  12.5,
		Smoker:     false,
		City:       "Mumbai",
		Occupation: domain.OccupationPrivateJob,
	}
}

func TestPredictSendsFlatBodyAndKeepsClassOrder(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_category":"Low","confidence":0.71,"class_probabilities":{"Medium":0.17,"High":0.12,"Low":0.71},"metadata":{"model_version":"1.0.0","input_features":{"bmi":23.02,"age_group":"adult","lifestyle_risk":"low","city_tier":1,"income_lpa":12.5,"occupation":"private_job"}}}`))
	}))
	defer server.Close()

	resp, err := New(server.URL+"/", time.Second).Predict(context.Background(), referenceInput())
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if payload["smoker"] != false || payload["city"] != "Mumbai" || payload["occupation"] != "private_job" {
		t.Fatalf("unexpected request payload %v", payload)
	}
	labels := resp.ClassProbabilities.Labels()
	if len(labels) != 3 || labels[0] != "Medium" || labels[1] != "High" || labels[2] != "Low" {
		t.Fatalf("expected server class order, got %v", labels)
	}
	if resp.Metadata == nil || resp.Metadata.InputFeatures.CityTier != 1 {
		t.Fatalf("expected metadata to decode, got %+v", resp.Metadata)
	}
}

func TestAPIErrorCarriesServerDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"validation failed: age: must be less than or equal to 119","errors":[{"field":"age","message":"must be less than or equal to 119"}]}`))
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second).Predict(context.Background(), referenceInput())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || len(apiErr.Errors) != 1 || apiErr.Errors[0].Field != "age" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestAPIErrorFallsBackToRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second).Health(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "bad gateway" {
		t.Fatalf("expected raw body detail, got %v", err)
	}
}

func TestHealthAndModelInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			_, _ = w.Write([]byte(`{"status":"healthy","version":"1.0.0","model_loaded":true,"timestamp":1700000000.5}`))
		case "/model-info":
			_, _ = w.Write([]byte(`{"model_version":"1.0.0","model_type":"SoftmaxRegression","classes":["High","Low","Medium"],"features":["bmi"]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := New(server.URL, 0)
	health, err := c.Health(context.Background())
	if err != nil || !health.ModelLoaded || health.Status != domain.HealthStatusHealthy {
		t.Fatalf("unexpected health %+v (%v)", health, err)
	}
	info, err := c.ModelInfo(context.Background())
	if err != nil || info.ModelType != "SoftmaxRegression" || len(info.Classes) != 3 {
		t.Fatalf("unexpected model info %+v (%v)", info, err)
	}
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	if _, err := New(server.URL, 20*time.Millisecond).Health(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
}
