package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "todo-chat-api"

// Log is the global SugaredLogger instance.
// Initialized with a no-op logger until Initialize is called.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Initialize sets up the global logger with the given log level.
func Initialize(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	logger, err := newConfig(lvl).Build()
	if err != nil {
		return err
	}

	Log = logger.Sugar()
	return nil
}

// newConfig is the production config with the service name stamped on
// every entry.
func newConfig(lvl zapcore.Level) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.InitialFields = map[string]interface{}{"service": serviceName}
	return cfg
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}
