package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/adapter/http/dto"
	"github.com/fleetbooks/fleetbooks/internal/domain"
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

// mapDomainError maps ledger error kinds to HTTP status codes. Missing
// well-known accounts are a misconfiguration, not the caller's fault, so
// they map to 500 rather than 4xx.
func mapDomainError(err error) int {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case domain.KindValidation:
			return http.StatusUnprocessableEntity
		case domain.KindNotFound:
			return http.StatusNotFound
		case domain.KindConfiguration:
			return http.StatusInternalServerError
		}
	}

	return http.StatusInternalServerError
}

// errorKindLabel returns the metric label for an error.
func errorKindLabel(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return string(de.Kind)
	}

	return "internal"
}

// parseIntQuery parses a non-negative integer query parameter with a default.
func parseIntQuery(r *http.Request, key string, def int) (int, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return def, nil
	}

	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}

	return n, nil
}

// parseTimeQuery parses an RFC3339 query parameter, defaulting to now.
func parseTimeQuery(r *http.Request, key string) (time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return time.Now().UTC(), nil
	}

	return time.Parse(time.RFC3339, val)
}
