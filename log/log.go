// Package log provides the package-level structured logger used across
// invidx, adapted from sourcegraph-zoekt's log package: a zap.Logger
// initialized once at process startup, defaulting to a JSON production
// encoder and switching to a human-readable console encoder in
// development.
package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envDevelopment = "INVIDX_LOG_DEV"

var (
	globalLogger     *zap.Logger
	globalLoggerInit sync.Once
)

// Init initializes the global logger. It must be called once, from
// main(), before any call to Get. Subsequent calls panic.
func Init() (sync func() error) {
	if globalLogger != nil {
		panic("log.Init called multiple times")
	}
	globalLoggerInit.Do(func() {
		globalLogger = newLogger(os.Getenv(envDevelopment) == "true")
	})
	return globalLogger.Sync
}

// Get returns the global logger, initializing a bare-bones production
// logger on first use if Init was never called - convenient for tests
// and small tools like cmd/invidx-query that don't need Init's ceremony.
func Get() *zap.Logger {
	globalLoggerInit.Do(func() {
		if globalLogger == nil {
			globalLogger = newLogger(false)
		}
	})
	return globalLogger
}

func newLogger(development bool) *zap.Logger {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	var encoder zapcore.Encoder
	var options []zap.Option
	if development {
		cfg := zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(cfg)
		options = append(options, zap.Development())
	} else {
		cfg := zap.NewProductionEncoderConfig()
		encoder = zapcore.NewJSONEncoder(cfg)
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core, append(options, zap.AddCaller())...)
}
