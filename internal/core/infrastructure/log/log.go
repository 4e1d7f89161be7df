// Package log provides the zap-backed implementation of the Logger
// interface consumed by the popow core.
package log

import (
	"fmt"
	"os"

	logconfig "github.com/gtklocker/ergo/internal/config/log"
	logiface "github.com/gtklocker/ergo/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger/SugaredLogger pair behind logiface.Logger.
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
}

// New builds a Logger from the given configuration.
func New(config *logconfig.Config) (logiface.Logger, error) {
	if config == nil {
		config = logconfig.New(nil)
	}

	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	level := zap.NewAtomicLevelAt(config.GetZapLevel())

	var cores []zapcore.Core
	path := config.GetFilePath()
	switch path {
	case "stdout", "":
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	case "stderr":
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level))
	default:
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %q: %w", path, err)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(f), level))
		if config.IsConsoleEnabled() {
			cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
		}
	}

	var zapOpts []zap.Option
	if config.IsCallerEnabled() {
		zapOpts = append(zapOpts, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	zl := zap.New(zapcore.NewTee(cores...), zapOpts...)
	return &Logger{zapLogger: zl, sugar: zl.Sugar()}, nil
}

// NewNop returns a Logger that discards everything, for tests and
// callers that want a non-nil default.
func NewNop() logiface.Logger {
	zl := zap.NewNop()
	return &Logger{zapLogger: zl, sugar: zl.Sugar()}
}

func (l *Logger) Debug(msg string)                          { l.sugar.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(msg string)                           { l.sugar.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.sugar.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.sugar.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *Logger) Fatal(msg string)                          { l.sugar.Fatal(msg) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

func (l *Logger) With(args ...interface{}) logiface.Logger {
	return &Logger{
		zapLogger: l.zapLogger.With(toZapFields(args...)...),
		sugar:     l.sugar.With(args...),
	}
}

func (l *Logger) Sync() error              { return l.zapLogger.Sync() }
func (l *Logger) GetZapLogger() *zap.Logger { return l.zapLogger }

// toZapFields turns an alternating key/value varargs list into zap.Field
// values, matching the convention used by Logger.With across this module.
func toZapFields(args ...interface{}) []zap.Field {
	if len(args)%2 != 0 {
		args = args[:len(args)-1]
	}
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}
