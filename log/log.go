// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package log provides the module-scoped, key/value structured logger used
// throughout geyserbench. Calls take the shape Info(msg, "key", val, ...),
// backed by go.uber.org/zap's SugaredLogger rather than a hand-rolled
// formatter.
package log

import (
	"os"
	"sync"

	"github.com/go-stack/stack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	base    *zap.Logger
	verbose bool
)

func root() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		base = newBaseLogger(false)
	}
	return base
}

func newBaseLogger(trace bool) *zap.Logger {
	level := zapcore.InfoLevel
	if trace {
		level = zapcore.DebugLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		// Fall back to a bare logger; logging must never crash the process.
		logger = zap.NewNop()
	}
	return logger
}

// SetTrace reconfigures the root logger at debug verbosity. Only Loggers
// created after the call use the new root; a Logger created earlier (such
// as a package-level module logger built at init time) keeps its level.
func SetTrace(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	base = newBaseLogger(enabled)
	verbose = enabled
}

// TraceEnabled reports whether trace (debug) level logging is active.
// Producers use it to decide whether to open a per-endpoint log file at
// all.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// Logger is a module-scoped structured logger.
type Logger struct {
	sugar  *zap.SugaredLogger
	module string
}

// NewModuleLogger returns a Logger tagged with the given module name, the
// same way klaytn's log.NewModuleLogger(log.CmdUtils) scopes log lines to
// their owning package.
func NewModuleLogger(module string) *Logger {
	return &Logger{
		sugar:  root().Sugar().With("module", module),
		module: module,
	}
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.sugar.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.sugar.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.sugar.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.sugar.Errorw(msg, kv...) }

// Crit logs at error level with a caller stack attached, then exits the
// process. It is reserved for the supervisor's unrecoverable startup errors.
func (l *Logger) Crit(msg string, kv ...interface{}) {
	kv = append(kv, "stack", stack.Trace().TrimRuntime())
	l.sugar.Errorw(msg, kv...)
	os.Exit(1)
}
