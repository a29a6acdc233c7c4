package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrops-br/storefront-api/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// StatusFor maps a domain error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidScreen), errors.Is(err, domain.ErrInvalidShipping):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCatalogLoading), errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, err error) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusServiceUnavailable:
		errorType = "unavailable"
		if errors.Is(err, domain.ErrCatalogLoading) {
			errorType = "catalog_loading"
			w.Header().Set("Retry-After", "1")
		}
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	JSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: err.Error(),
	})
}

// DomainError sends the response matching a domain error
func DomainError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}
