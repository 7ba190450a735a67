// Package logging provides structured logging backed by zap.
//
// The package-level logger is a no-op until Init is called, so importing
// SDK packages never writes to stderr unless the application opts in.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level  string // "debug", "info", "warn", "error" (default: "info")
	Format string // "json" or "console" (default: "json")
}

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init builds the global logger from cfg. Safe to call more than once;
// the last successful call wins.
func Init(cfg Config) error {
	level, err := zapcore.ParseLevel(levelOr(cfg.Level, "info"))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "", "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return fmt.Errorf("unknown log format: %s", cfg.Format)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	mu.Lock()
	log = logger
	mu.Unlock()
	return nil
}

func levelOr(level, fallback string) string {
	if level == "" {
		return fallback
	}
	return level
}

// L returns the current global logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

// Info logs an info message.
func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

// Error logs an error message.
func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

// Sync flushes any buffered log entries.
func Sync() error { return L().Sync() }
