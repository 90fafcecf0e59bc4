package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/praveenks/lendbook/internal/adapter/http/dto"
	"github.com/praveenks/lendbook/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrLoanNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCollectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAmountTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLoanAlreadyClosed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientClosingAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidLoanTerms):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyReportFilter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
