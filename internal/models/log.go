package models

import (
	"strings"
	"time"
)

type LogType string

const (
	LogTypeText LogType = "txt"
	LogTypeJSON LogType = "json"
)

// Log is one uploaded diagnostic log file. Content is immutable after
// creation; only the display name can be changed.
type Log struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
	Type    LogType   `json:"type"`
}

// LogTypeForName derives the stored log type from the uploaded file name.
func LogTypeForName(name string) LogType {
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return LogTypeJSON
	}
	return LogTypeText
}

// ContentType returns the MIME type used when the log is exported.
func (l Log) ContentType() string {
	if l.Type == LogTypeJSON {
		return "application/json"
	}
	return "text/plain"
}
