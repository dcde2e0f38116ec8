// Package logger provides opinionated logging capabilities for the stylist tools
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(debug bool) *zap.Logger {
	return newLogger(debug, zapcore.AddSync(os.Stdout))
}

// NewTUILogger logs to stderr so output never interleaves with a terminal UI
// drawn on stdout.
func NewTUILogger(debug bool) *zap.Logger {
	return newLogger(debug, zapcore.AddSync(os.Stderr))
}

func newLogger(debug bool, sink zapcore.WriteSyncer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	// Set log level
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		sink,
		level,
	)

	return zap.New(core, zap.AddCaller())
}
