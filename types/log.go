package types

import (
	"time"
)

// LogEntry is an HTTP request/response capture queued for async persistence.
type LogEntry struct {
	Method          string
	URL             string
	RequestBody     string
	RequestHeaders  string
	ResponseBody    string
	ResponseHeaders string
	StatusCode      int
	UsuarioID       *uint
	CreatedAt       time.Time
}
