// Package render writes JSON responses and maps domain errors to HTTP
// statuses with a stable machine code the client localizes.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"lapor/internal/lifecycle"
	"lapor/pkg/e"
)

type ErrorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, log *slog.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("json encode failed", slog.Any("error", err))
	}
}

func Fail(w http.ResponseWriter, log *slog.Logger, status int, code, msg string, fields map[string]string) {
	JSON(w, log, status, ErrorBody{Error: msg, Code: code, Fields: fields})
}

// Error writes the response for err. Rule rejections are expected and logged
// at info; everything that ends in a 5xx is logged as an error.
func Error(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, code, msg := classify(err)

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err),
	}
	if status >= http.StatusInternalServerError {
		log.Error("handler error", attrs...)
	} else {
		log.Info("request rejected", attrs...)
	}

	Fail(w, log, status, code, msg, nil)
}

func classify(err error) (int, string, string) {
	switch {
	case lifecycle.IsNoOp(err):
		return http.StatusConflict, "no_changes", "no changes to save"
	case errors.Is(err, e.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "authentication required"
	case errors.Is(err, e.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized", "not allowed for this role"
	case errors.Is(err, e.ErrTerminalState):
		return http.StatusConflict, "terminal_state", "status is final"
	case errors.Is(err, e.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition", "status change not allowed"
	case errors.Is(err, e.ErrResponseRequired):
		return http.StatusUnprocessableEntity, "response_required", "a response is required for this status change"
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input", "invalid input"
	case errors.Is(err, e.ErrConflict), errors.Is(err, e.ErrUniqueViolation):
		return http.StatusConflict, "conflict", "conflict"
	case errors.Is(err, e.ErrDeadline):
		return http.StatusGatewayTimeout, "timeout", "request timed out"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
