package logger

import (
	"strings"
	"sync"
)

// Log levels accepted by config key log.level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call fixes the level;
// later calls return the same instance regardless of level.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = New(level)
	})
	return globalLogger
}

// New builds a standalone logger writing to stdout at the given level.
func New(level string) *Logger {
	return newZapLogger(normalizeLevel(level))
}

// ValidLevel reports whether level names one of the known log levels.
func ValidLevel(level string) bool {
	switch normalizeLevel(level) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}

func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
