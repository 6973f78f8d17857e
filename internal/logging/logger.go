// Package logging provides the zap logger used for diagnostics.
//
// User-facing output goes through internal/ui; this logger only carries
// debug traces and warnings, always on stderr.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	global      *zap.Logger
	atomicLevel = zap.NewAtomicLevelAt(zap.WarnLevel)
	mu          sync.Mutex
)

// Init builds the global logger.
// level: debug, info, warn, error
// format: console or json
func Init(level, format string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := atomicLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	cfg.Level = atomicLevel
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	global = logger
	return nil
}

// SetLevel changes the level of the running logger.
func SetLevel(level string) error {
	return atomicLevel.UnmarshalText([]byte(level))
}

// GetLevel returns the current log level.
func GetLevel() zapcore.Level {
	return atomicLevel.Level()
}

// L returns the global logger, or a no-op logger before Init.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		return zap.NewNop()
	}
	return global
}

// Replace swaps the global logger and returns a function restoring the
// previous one, in the manner of zap.ReplaceGlobals.
func Replace(l *zap.Logger) func() {
	mu.Lock()
	defer mu.Unlock()
	prev := global
	global = l
	return func() {
		mu.Lock()
		defer mu.Unlock()
		global = prev
	}
}

// Sync flushes buffered entries.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		return nil
	}
	return global.Sync()
}
