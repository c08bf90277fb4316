package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"promohub/internal/domain"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Status: "error", Message: err.Error()})
}

// statusFor is the single place domain errors become HTTP statuses. Every
// activation rejection keeps its own stable signal.
func statusFor(err error) int {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrImmutableField),
		errors.Is(err, domain.ErrCodeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrPromoNotActive),
		errors.Is(err, domain.ErrPromoOutsideWindow),
		errors.Is(err, domain.ErrPromoExhausted),
		errors.Is(err, domain.ErrNotEligible):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrAlreadyRedeemed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
