package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a console logger writing to sink at the given level
func New(level string, sink zapcore.WriteSyncer) *zap.Logger {
	core := zapcore.NewCore(
		getConsoleEncoder(),
		sink,
		getLevel(level),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// NewStderr creates a logger writing to stderr
func NewStderr(level string) *zap.Logger {
	return New(level, zapcore.Lock(os.Stderr))
}

// File rotation limits
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// NewFile creates a logger appending to a rotated file at path. The TUI
// owns the terminal, so it logs here instead of stderr.
func NewFile(level, path string) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}

	return New(level, zapcore.AddSync(sink)), sink.Close, nil
}

func getLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func getConsoleEncoder() zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.TimeKey = "time"
	conf.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewConsoleEncoder(conf)
}
