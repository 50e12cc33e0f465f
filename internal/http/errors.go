package http

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/webinar-seats/internal/domain"
)

const (
	codeWebinarNotFound     = "webinar_not_found"
	codeForbidden           = "forbidden"
	codeInvalidSeats        = "invalid_seats"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidIdempotency  = "invalid_idempotency_key"
	codeIdempotencyMismatch = "idempotency_key_reused"
	codeUnauthorized        = "unauthorized"
	codeRateLimited         = "rate_limited"
	codeConflict            = "conflict"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func errorBody(code, msg string) []byte {
	payload, err := json.Marshal(errorResponse{Error: msg, Code: code})
	if err != nil {
		return []byte(`{"error":"internal error","code":"internal_error"}`)
	}
	return payload
}

// jsonBody encodes v, falling back to a generic internal error body.
func jsonBody(v any) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		return errorBody(codeInternalError, "internal error")
	}
	return payload
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody(code, msg))
}

// errorResponseFor maps use case errors to a status and body by kind.
// Anything that is not a domain error is reported without its message.
func errorResponseFor(err error) (int, []byte) {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound, errorBody(codeWebinarNotFound, err.Error())
	case domain.KindAuthorization:
		return http.StatusForbidden, errorBody(codeForbidden, err.Error())
	case domain.KindValidation:
		return http.StatusBadRequest, errorBody(codeInvalidSeats, err.Error())
	}
	if errors.Is(err, domain.ErrSerializationFailure) {
		return http.StatusConflict, errorBody(codeConflict, "conflict, try again")
	}
	return http.StatusInternalServerError, errorBody(codeInternalError, "internal error")
}
