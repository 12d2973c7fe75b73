package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *HTTPServerMetrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("read metrics body: %v", err)
	}
	return string(body)
}

func TestMiddlewareRecordsStatusAndNormalizesUnknownPaths(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	handler := m.Middleware("api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/predict" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/predict", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/123", nil))

	body := scrape(t, m)
	if !strings.Contains(body, `premium_http_requests_total{method="POST",path="/predict",service="api",status="400"} 1`) {
		t.Fatalf("expected predict request counter, got:\n%s", body)
	}
	if !strings.Contains(body, `path="other"`) {
		t.Fatalf("expected unknown path to be normalized, got:\n%s", body)
	}
	if strings.Contains(body, "/random/123") {
		t.Fatalf("raw unknown path leaked into labels")
	}
}

func TestPredictionAndModelMetricsShareRegistry(t *testing.T) {
	m := NewHTTPServerMetrics("api")
	model := NewModelMetrics("api", m.Registerer())

	m.RecordPrediction("api", "Low", 0.82)
	m.RecordPredictionFailure("api", "")
	model.ObserveModelLoad(15*time.Millisecond, errors.New("missing artifact"))
	model.ObserveModelLoad(10*time.Millisecond, nil)

	body := scrape(t, m)
	for _, want := range []string{
		`premium_prediction_total{category="Low",service="api"} 1`,
		`premium_prediction_failures_total{kind="unknown",service="api"} 1`,
		`premium_model_loads_total{service="api",status="failed"} 1`,
		`premium_model_loads_total{service="api",status="success"} 1`,
		`premium_model_loaded{service="api"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output:\n%s", want, body)
		}
	}
}
