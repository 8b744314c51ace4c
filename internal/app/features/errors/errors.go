// internal/app/features/errors/errors.go

// Package errors renders API error responses and logs the server-side cause.
// The API is consumed by an external frontend, so every failure is a JSON
// body of the form {"error": "...", "code": "..."} rather than an HTML page.
package errors

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// Stable machine-readable error codes the frontend switches on.
const (
	CodeBadRequest        = "bad_request"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeRateLimited       = "rate_limited"
	CodeInternal          = "internal_error"
	CodeAccountNotFound   = "account_not_found"
	CodeWrongLoginChannel = "wrong_login_channel"
	CodeWrongAccountKind  = "wrong_account_kind"
	CodeInvalidCode       = "invalid_code"
	CodeTooManyAttempts   = "too_many_attempts"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error body with the given status and code.
func WriteError(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, errorBody{Error: msg, Code: code})
}

// maxBodyBytes caps request bodies so a hostile client cannot exhaust memory.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst. Unknown fields are rejected
// so typos in the frontend payload surface as 400s instead of silent zeros.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ErrorLogger pairs client responses with server-side zap logging so the
// reason behind a 4xx/5xx is never lost.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger. A nil logger is replaced with a
// no-op logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

// LogBadRequest logs the cause and answers 400 with the public message.
func (el *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, internalMsg string, err error, publicMsg string) {
	el.Log.Warn(internalMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))
	WriteError(w, http.StatusBadRequest, CodeBadRequest, publicMsg)
}

// LogDBError logs a storage failure and answers 500 with a generic message.
func (el *ErrorLogger) LogDBError(w http.ResponseWriter, r *http.Request, op string, err error) {
	el.Log.Error("database operation failed",
		zap.String("op", op),
		zap.Error(err),
		zap.String("path", r.URL.Path))
	WriteError(w, http.StatusInternalServerError, CodeInternal, "Something went wrong. Please try again.")
}

// LogInternalError logs an unexpected failure and answers 500.
func (el *ErrorLogger) LogInternalError(w http.ResponseWriter, r *http.Request, internalMsg string, err error) {
	el.Log.Error(internalMsg,
		zap.Error(err),
		zap.String("path", r.URL.Path))
	WriteError(w, http.StatusInternalServerError, CodeInternal, "Something went wrong. Please try again.")
}

// Unauthorized answers 401.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "Sign in required.")
}

// Forbidden answers 403 with the given message.
func Forbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "You don't have permission to do that."
	}
	WriteError(w, http.StatusForbidden, CodeForbidden, msg)
}

// NotFound answers 404 with the given message.
func NotFound(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Not found."
	}
	WriteError(w, http.StatusNotFound, CodeNotFound, msg)
}
