// Package httputil centralizes JSON encoding and domain error translation for
// HTTP handlers. Handlers stay thin: decode, call the service, write.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "fraudguard/pkg/domain-errors"
)

// Severity labels a response for client presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Response is the envelope returned by every action endpoint.
type Response struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Data     any      `json:"data,omitempty"`
}

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps a domain error to its HTTP status and writes the envelope.
// Messages are user-facing: every denial states its concrete reason.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusOf(err), Response{
		Severity: SeverityError,
		Message:  messageOf(err),
	})
}

// StatusOf maps a domain error code to an HTTP status.
// Storage faults are 500, never a silent allow.
func StatusOf(err error) int {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeVerificationFailed, dErrors.CodePolicyViolation, dErrors.CodeRateLimited, dErrors.CodeUnauthorized:
		return http.StatusForbidden
	case dErrors.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func messageOf(err error) string {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message()
	}
	// Internal causes are not shown to callers.
	return "An unexpected error occurred. Please try again."
}

// Decode parses a JSON request body into T. Returns an invalid-input error on
// malformed payloads so the handler can delegate to WriteError.
func Decode[T any](r *http.Request) (T, error) {
	var payload T
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return payload, dErrors.New(dErrors.CodeInvalidInput, "invalid request body")
	}
	return payload, nil
}
