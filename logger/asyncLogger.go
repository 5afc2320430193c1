package logger

import (
	log_model "clinic-booking/models/log"
	"clinic-booking/types"

	"gorm.io/gorm"
)

// AsyncLogger drains request log entries from a buffered channel into the
// logs table so request handling never waits on the insert.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
	}
}

func (logger *AsyncLogger) ProcessLog() {
	Info("starting asynchronous request logger")

	for entry := range logger.channel {
		dbLog := log_model.Log{
			Method:          entry.Method,
			URL:             entry.URL,
			RequestBody:     entry.RequestBody,
			ResponseBody:    entry.ResponseBody,
			RequestHeaders:  entry.RequestHeaders,
			ResponseHeaders: entry.ResponseHeaders,
			StatusCode:      entry.StatusCode,
			UsuarioID:       entry.UsuarioID,
			CreatedAt:       entry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			Error("failed to insert request log entry", err)
		}
	}
}

// Log queues an entry for persistence.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	logger.channel <- entry
}
