package logging

import (
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "UPNPC_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks UPNPC_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
//
// Logs always go to stderr: stdout carries the rendered device lines.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer cores.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Enabled reports whether any log output is produced
func Enabled() bool {
	return GetLogger().Core().Enabled(zapcore.ErrorLevel)
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogSearch logs the start of a discovery run
func LogSearch(mode string, target string, timeout time.Duration) {
	Info("Discovery started",
		zap.String("mode", mode),
		zap.String("search_target", target),
		zap.Duration("timeout", timeout),
	)
}

// LogResponse logs an SSDP response or announcement that names a new description location
func LogResponse(location string, usn string) {
	Debug("SSDP response",
		zap.String("location", location),
		zap.String("usn", usn),
	)
}

// LogDescriptionError logs a failure to fetch or parse a device description
func LogDescriptionError(location string, err error) {
	Warn("Device description unavailable",
		zap.String("location", location),
		zap.Error(err),
	)
}

// StdLog returns a standard library logger that writes into the zap logger
// at debug level. Libraries that only accept *log.Logger log through it.
func StdLog(name string) *log.Logger {
	l, err := zap.NewStdLogAt(GetLogger().Named(name), zapcore.DebugLevel)
	if err != nil {
		// Only fails for invalid levels
		return zap.NewStdLog(GetLogger().Named(name))
	}
	return l
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
