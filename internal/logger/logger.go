// Package logger holds the process wide structured logger.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sugar is a no-op until New installs a real logger.
var Sugar = zap.NewNop().Sugar()

// New installs a production logger at level (debug, info, warn, error).
// "NOOP" keeps the no-op logger, for tests.
func New(level string) error {
	if strings.EqualFold(level, "NOOP") {
		Sugar = zap.NewNop().Sugar()
		return nil
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Sugar = l.Sugar()
	return nil
}

// OnExit flushes buffered log entries.
func OnExit() {
	_ = Sugar.Sync()
}
