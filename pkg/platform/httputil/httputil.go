// Package httputil centralizes JSON encoding and domain-error translation for
// HTTP handlers so every endpoint returns the same error envelope.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "caseflow/pkg/domain-errors"
)

// statusByCode maps domain error codes to HTTP status codes. Unknown codes
// fall back to 500.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeInvalidInput:        http.StatusBadRequest,
	dErrors.CodeBadRequest:          http.StatusBadRequest,
	dErrors.CodeNotFound:            http.StatusNotFound,
	dErrors.CodeConflict:            http.StatusConflict,
	dErrors.CodeCaseLocked:          http.StatusConflict,
	dErrors.CodeInvalidTransition:   http.StatusUnprocessableEntity,
	dErrors.CodeReadinessNotMet:     http.StatusUnprocessableEntity,
	dErrors.CodeIntegrityViolation:  http.StatusUnprocessableEntity,
	dErrors.CodeInvariantViolation:  http.StatusUnprocessableEntity,
	dErrors.CodeStaleResult:         http.StatusConflict,
	dErrors.CodeUnauthorized:        http.StatusForbidden,
	dErrors.CodeTimeout:             http.StatusGatewayTimeout,
	dErrors.CodeCollaboratorFailure: http.StatusBadGateway,
	dErrors.CodeInternal:            http.StatusInternalServerError,
}

// ToHTTPStatus returns the HTTP status for a domain error code.
func ToHTTPStatus(code dErrors.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

type errorEnvelope struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteError translates a domain error into the JSON error envelope. Internal
// errors omit the description so infrastructure detail never leaks to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	envelope := errorEnvelope{Error: string(code)}
	if code != dErrors.CodeInternal {
		envelope.ErrorDescription = dErrors.Reason(err)
	}
	WriteJSON(w, ToHTTPStatus(code), envelope)
}

// WriteJSON encodes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeAndPrepare decodes the JSON request body into T, writing a
// bad_request envelope and logging on failure.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "invalid request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return req, false
	}
	return req, true
}
