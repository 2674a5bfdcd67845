package server

import (
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/nodeglow/nodeglow/pkg/errors"
)

// ErrorResponse is the JSON body for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error onto an HTTP status by its error code and writes
// the standard error body. Unknown errors are reported as internal.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusForCode(code), ErrorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}

// writeErrorCode writes an error response built in place.
func writeErrorCode(w http.ResponseWriter, code errors.Code, format string, args ...any) {
	writeError(w, errors.New(code, format, args...))
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidNode,
		errors.ErrCodeInvalidLink,
		errors.ErrCodeInvalidLayer,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidEvent,
		errors.ErrCodeUnknownRef,
		errors.ErrCodeDuplicateNode,
		errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeGraphNotFound,
		errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into v, rejecting unknown shapes
// with an invalid-config error the handler can pass straight to writeError.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode request body")
	}
	return nil
}
