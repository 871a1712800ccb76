// Package logging builds the process logger and bridges it into the
// Temporal SDK so client, worker, workflow and activity logs share one sink.
package logging

import (
	"os"

	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger tagged with service and hostname.
// POS_LOG_LEVEL=debug lowers the level.
func New(service string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if os.Getenv("POS_LOG_LEVEL") == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	hostname, _ := os.Hostname()
	return logger.With(zap.String("service", service), zap.String("hostname", hostname)), nil
}

// TemporalLogger adapts zap to log.Logger
type TemporalLogger struct {
	sugar *zap.SugaredLogger
}

var (
	_ log.Logger     = (*TemporalLogger)(nil)
	_ log.WithLogger = (*TemporalLogger)(nil)
)

func NewTemporalLogger(logger *zap.Logger) *TemporalLogger {
	// skip the adapter frame so caller points at the SDK
	return &TemporalLogger{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *TemporalLogger) Debug(msg string, keyvals ...interface{}) {
	l.sugar.Debugw(msg, keyvals...)
}

func (l *TemporalLogger) Info(msg string, keyvals ...interface{}) {
	l.sugar.Infow(msg, keyvals...)
}

func (l *TemporalLogger) Warn(msg string, keyvals ...interface{}) {
	l.sugar.Warnw(msg, keyvals...)
}

func (l *TemporalLogger) Error(msg string, keyvals ...interface{}) {
	l.sugar.Errorw(msg, keyvals...)
}

func (l *TemporalLogger) With(keyvals ...interface{}) log.Logger {
	return &TemporalLogger{sugar: l.sugar.With(keyvals...)}
}
