package objc

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the package logger. It is a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	nop := zap.NewNop()
	if logger.CompareAndSwap(nil, nop) {
		return nop
	}
	return logger.Load()
}

// SetLogger replaces the package logger. Useful for debugging dispatch
// and resolution; the hot paths stay allocation-free when the default
// no-op logger is installed.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}

// debug gates verbose dispatch tracing.
var debug = false

func debugf(format string, args ...any) {
	if debug {
		Logger().Sugar().Debugf(format, args...)
	}
}
