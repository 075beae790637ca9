// Package logger provides the process-wide structured logger for the roast
// logging service. Background workers (roast clock, finalizer) and request
// handlers all log through the same sugared instance.
package logger

import (
	"sync"
)

// Log levels accepted by Get.
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

// Get returns the singleton logger, initializing it at the given level on the
// first call. Later calls return the existing instance and ignore the level.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}
