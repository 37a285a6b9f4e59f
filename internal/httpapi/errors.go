package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"thalamusd/internal/device"
	"thalamusd/internal/fetch"
	"thalamusd/internal/manager"
	"thalamusd/internal/registry"
	"thalamusd/pkg/types"
)

// HTTPError lets a service pick its own status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeError maps domain errors to status codes: unknown models are 404,
// bad deploy config and undecodable inputs are 400, upstream weight
// failures are 502 and an exhausted device pool is 503.
func writeError(w http.ResponseWriter, err error) {
	var he HTTPError
	switch {
	case registry.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case manager.IsConfig(err) || manager.IsInvalidInput(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case fetch.IsFetch(err):
		writeJSONError(w, http.StatusBadGateway, err.Error())
	case device.IsUnavailable(err):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &he):
		writeJSONError(w, he.StatusCode(), he.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}
