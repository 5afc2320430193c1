package apperrors

import (
	"fmt"
	"net/http"
)

// AppError is the error type the service layer returns. Controllers map it
// onto an HTTP status without inspecting error strings.
type AppError struct {
	Code    int                    `json:"-"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Validation reports a request the caller can fix (HTTP 400).
func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity (HTTP 404).
func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a state conflict (HTTP 409).
func Conflict(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusConflict, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a failed authentication (HTTP 401).
func Unauthorized(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Forbidden reports an authenticated but not allowed request (HTTP 403).
func Forbidden(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: fmt.Sprintf(format, args...)}
}

// Capacity reports a full slot (HTTP 409) and carries the counts the
// frontend shows to the operator.
func Capacity(totales, ocupados int) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: "no hay cupos disponibles para el horario seleccionado",
		Data: map[string]interface{}{
			"cupos_totales":  totales,
			"cupos_ocupados": ocupados,
		},
	}
}

// StatusOf returns the HTTP status for err, defaulting to 500 for errors
// that did not originate in the service layer.
func StatusOf(err error) int {
	if ae, ok := err.(*AppError); ok {
		return ae.Code
	}
	return http.StatusInternalServerError
}

// DataOf returns the extra payload attached to err, if any.
func DataOf(err error) map[string]interface{} {
	if ae, ok := err.(*AppError); ok {
		return ae.Data
	}
	return nil
}
