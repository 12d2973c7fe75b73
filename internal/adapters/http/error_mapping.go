package httpadapter

import (
	"net/http"

	"github.com/kirillkom/premium-predictor/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorKind is the metrics label for a failed prediction.
func errorKind(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid_input"
	case domain.IsKind(err, domain.ErrModelUnavailable):
		return "model_unavailable"
	case domain.IsKind(err, domain.ErrFeatureMismatch):
		return "feature_mismatch"
	default:
		return "unexpected"
	}
}
