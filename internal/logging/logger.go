package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/EzhovAndrew/smtp-client/internal/configuration"
)

var globalLogger = zap.NewNop()

func Init(cfg *configuration.LoggingConfig) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfgEncoder := zap.NewProductionEncoderConfig()
	cfgEncoder.TimeKey = "timestamp"
	cfgEncoder.EncodeTime = zapcore.ISO8601TimeEncoder
	cfgEncoder.EncodeLevel = zapcore.CapitalLevelEncoder

	if cfg.Output == "" {
		cfg.Output = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    cfgEncoder,
		OutputPaths:      []string{cfg.Output},
		ErrorOutputPaths: []string{cfg.Output},
		DisableCaller:    true,
	}

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	globalLogger = logger
}

// Logger exposes the configured logger for components that want their own
// named child.
func Logger() *zap.Logger {
	return globalLogger
}

func Debug(msg string, fields ...zapcore.Field) {
	globalLogger.Debug(msg, fields...)
}

func Info(msg string, fields ...zapcore.Field) {
	globalLogger.Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	globalLogger.Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	globalLogger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zapcore.Field) {
	globalLogger.Fatal(msg, fields...)
}

func Sync() {
	_ = globalLogger.Sync()
}
