package clrmeta

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the package logger used when Config.Logger is unset.
// It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger replaces the package logger. It is safe to call while Parse
// runs on other goroutines; a nil l restores the no-op logger.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
