// Package logging builds the application's zap logger. The TUI owns the
// terminal, so logs always go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultPath returns the log file location: SKILLBUILDER_LOG when set,
// otherwise skillbuilder.log next to the database in dataDir.
func DefaultPath(dataDir string) string {
	if p := os.Getenv("SKILLBUILDER_LOG"); p != "" {
		return p
	}
	return filepath.Join(dataDir, "skillbuilder.log")
}

// LevelFromEnv reads SKILLBUILDER_LOG_LEVEL, defaulting to info.
func LevelFromEnv() string {
	if l := os.Getenv("SKILLBUILDER_LOG_LEVEL"); l != "" {
		return l
	}
	return "info"
}

// New builds a JSON logger writing to path at the given level.
func New(path, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
