// Package apierr is the error half of the HTTP response envelope.
package apierr

import (
	"encoding/json"
	"net/http"
)

const statusError = "error"

type Error struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Code        int    `json:"code"`
	Description string `json:"description"`
	Data        any    `json:"data"`
}

func (e *Error) Error() string { return e.Message }

// New builds an error whose message and description are the same text.
func New(code int, message string) *Error {
	return &Error{
		Status:      statusError,
		Message:     message,
		Code:        code,
		Description: message,
		Data:        map[string]any{},
	}
}

// WithData returns a copy of e carrying data.
func (e *Error) WithData(data any) *Error {
	clone := *e
	clone.Data = data
	return &clone
}

func NotFound(message string) *Error   { return New(http.StatusNotFound, message) }
func BadRequest(message string) *Error { return New(http.StatusBadRequest, message) }
func Conflict(message string) *Error   { return New(http.StatusConflict, message) }

func Internal() *Error {
	return New(http.StatusInternalServerError, "Erro interno do servidor.")
}

func TooManyRequests() *Error {
	return New(http.StatusTooManyRequests, "Muitas requisições. Tente novamente em instantes.")
}

// Write serializes e with its own code as the HTTP status.
func Write(w http.ResponseWriter, e *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Code)
	_ = json.NewEncoder(w).Encode(e)
}
