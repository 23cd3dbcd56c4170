// Package logging provides the diagnostic logging surface used by the
// default error sinks and processor lifecycle hooks throughout this module.
//
// It follows gnet's pkg/logging almost verbatim in shape: a package-level
// default Logger backed by go.uber.org/zap's SugaredLogger, selected at
// init time by an environment variable, with an escape hatch for embedders
// to install their own implementation. The environment variable
// DISRUPTOR_LOGGING_LEVEL picks the zap level (same integer encoding as
// zapcore.Level); DISRUPTOR_LOGGING_FILE, when set, routes output through a
// rotating gopkg.in/natefinch/lumberjack.v2 sink instead of stdout.
//
// These two variables are the only environment-driven behavior in this
// module: they affect diagnostics only and never the core's scheduling or
// correctness.
package logging

import (
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is an alias of zapcore.Level so callers configuring a custom
// logger don't need to import zap directly.
type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

// Logger is the small capability set every error sink and processor logs
// through. Embedders may implement this with any logging library by
// calling SetDefault.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

var (
	mu            sync.RWMutex
	defaultLogger Logger
	defaultLevel  Level
)

func init() {
	if lvl := os.Getenv("DISRUPTOR_LOGGING_LEVEL"); lvl != "" {
		if parsed, err := strconv.ParseInt(lvl, 10, 8); err == nil {
			defaultLevel = Level(parsed)
		}
	}

	if path := os.Getenv("DISRUPTOR_LOGGING_FILE"); path != "" {
		defaultLogger = newFileLogger(path, defaultLevel)
	} else {
		defaultLogger = newConsoleLogger(defaultLevel)
	}
}

func newConsoleLogger(level Level) Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.Development(), zap.AddCaller()).Sugar()
}

func newFileLogger(path string, level Level) Logger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(rotator), level)
	return zap.New(core, zap.AddCaller()).Sugar()
}

// Default returns the process-wide default Logger.
func Default() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide default Logger. Intended to be
// called once during embedder start-up, before any ring or processor is
// constructed.
func SetDefault(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}
