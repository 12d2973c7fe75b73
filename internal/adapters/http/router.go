package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/kirillkom/premium-predictor/internal/config"
	"github.com/kirillkom/premium-predictor/internal/core/domain"
	"github.com/kirillkom/premium-predictor/internal/core/ports"
	"github.com/kirillkom/premium-predictor/internal/observability/metrics"
)

const (
	serviceName    = "premium-api"
	serviceVersion = "1.0.0"
	maxBodyBytes   = 1 << 20
)

type Router struct {
	cfg       config.Config
	predictor ports.PremiumPredictor
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(cfg config.Config, predictor ports.PremiumPredictor, httpMetrics *metrics.HTTPServerMetrics) *Router {
	return &Router{
		cfg:       cfg,
		predictor: predictor,
		metrics:   httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", rt.root)
	mux.HandleFunc("/health", rt.health)
	mux.HandleFunc("/predict", rt.predict)
	mux.HandleFunc("/model-info", rt.modelInfo)
	mux.HandleFunc("/docs", rt.docs)
	mux.HandleFunc("/openapi.json", rt.openAPI)
	if rt.metrics != nil {
		mux.Handle("/metrics", allowMethod(http.MethodGet, rt.metrics.Handler()))
	}

	var handler http.Handler = mux
	handler = corsMiddleware(rt.cfg.AllowedOrigins, handler)
	handler = trustedHostMiddleware(rt.cfg.AllowedHosts, handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoverMiddleware(handler)
	return handler
}

func (rt *Router) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, domain.ServiceInfo{
		Message: "Insurance Premium Prediction API",
		Version: serviceVersion,
		Docs:    "/docs",
		Health:  "/health",
	})
}

func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, rt.predictor.Health(r.Context()))
}

func (rt *Router) predict(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req domain.PredictRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, decodeErrorDetail(err))
		return
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeDetail(w, http.StatusBadRequest, "request body must contain a single JSON object")
		return
	}

	resp, err := rt.predictor.Predict(r.Context(), req)
	if err != nil {
		rt.recordFailure(err)
		rt.writePredictError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordPrediction(serviceName, resp.PredictedCategory, resp.Confidence)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) modelInfo(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	info, err := rt.predictor.ModelInfo(r.Context())
	if err != nil {
		status := mapErrorToHTTPStatus(err)
		if status == http.StatusServiceUnavailable {
			writeDetail(w, status, "Model not loaded")
			return
		}
		slog.ErrorContext(r.Context(), "model_info_failed",
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (rt *Router) writePredictError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, validationErrorBody{
			Detail: verr.Error(),
			Errors: verr.Violations,
		})
		return
	}

	switch status := mapErrorToHTTPStatus(err); status {
	case http.StatusBadRequest:
		writeDetail(w, status, err.Error())
	case http.StatusServiceUnavailable:
		slog.WarnContext(r.Context(), "prediction_model_unavailable",
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
		writeDetail(w, status, "Model not available")
	default:
		slog.ErrorContext(r.Context(), "prediction_failed",
			"request_id", requestIDFromContext(r.Context()),
			"kind", errorKind(err),
			"error", err,
		)
		writeDetail(w, http.StatusInternalServerError, "Internal server error during prediction")
	}
}

func (rt *Router) recordFailure(err error) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordPredictionFailure(serviceName, errorKind(err))
}

type detailBody struct {
	Detail string `json:"detail"`
}

type validationErrorBody struct {
	Detail string             `json:"detail"`
	Errors []domain.Violation `json:"errors"`
}

func decodeErrorDetail(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return "request body too large"
	case errors.Is(err, io.EOF):
		return "request body is required"
	default:
		return "invalid json: " + err.Error()
	}
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	return false
}

func allowMethod(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireMethod(w, r, method) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailBody{Detail: detail})
}

// writeJSON encodes before committing the status so an unencodable payload
// becomes a 500 instead of a truncated success.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("response_encode_failed", "status", status, "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(detailBody{Detail: "Internal server error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
