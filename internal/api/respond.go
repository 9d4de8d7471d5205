package api

import (
	"encoding/json"
	"net/http"

	"github.com/proaptus/tanklab/pkg/errors"
)

// errorBody is the JSON envelope for error responses.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an engine error onto an HTTP status and a JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	}})
}
