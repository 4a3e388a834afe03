// Package logx wraps a zap sugared logger behind package-level helpers.
package logx

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the process logger.
type Options struct {
	Level       string
	Development bool
	Console     bool

	// Output receives JSON lines when Console is false. Nil means stderr.
	Output io.Writer
}

var loggerLevelMap = map[string]zapcore.Level{
	"debug":  zapcore.DebugLevel,
	"info":   zapcore.InfoLevel,
	"warn":   zapcore.WarnLevel,
	"error":  zapcore.ErrorLevel,
	"dpanic": zapcore.DPanicLevel,
	"panic":  zapcore.PanicLevel,
	"fatal":  zapcore.FatalLevel,
}

var (
	mu    sync.Mutex
	sugar = zap.NewNop().Sugar()
)

// LevelByString returns the zap level for a name, defaulting to info for unknown names.
func LevelByString(lvl string) zapcore.Level {
	level, ok := loggerLevelMap[strings.ToLower(strings.TrimSpace(lvl))]
	if !ok {
		return zapcore.InfoLevel
	}
	return level
}

// New builds a sugared logger from opts without installing it.
//
// Parameters:
//   - opts: level, encoder and output selection
//
// Returns:
//   - *zap.SugaredLogger: the configured logger
func New(opts Options) *zap.SugaredLogger {
	var logWriter zapcore.WriteSyncer
	switch {
	case opts.Console:
		logWriter = zapcore.AddSync(os.Stdout)
	case opts.Output != nil:
		logWriter = zapcore.AddSync(opts.Output)
	default:
		logWriter = zapcore.AddSync(os.Stderr)
	}

	var encoderCfg zapcore.EncoderConfig
	if opts.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
	}
	encoderCfg.LevelKey = "LEVEL"
	encoderCfg.CallerKey = "CALLER"
	encoderCfg.TimeKey = "TIME"
	encoderCfg.NameKey = "NAME"
	encoderCfg.MessageKey = "MESSAGE"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if opts.Console {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, logWriter, zap.NewAtomicLevelAt(LevelByString(opts.Level)))
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// Init installs a logger built from opts as the process logger.
func Init(opts Options) {
	Set(New(opts))
}

// Set installs l as the process logger. A nil logger installs a no-op one.
func Set(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	mu.Lock()
	defer mu.Unlock()
	sugar = l
}

// L returns the process logger.
func L() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return sugar
}

func Debug(args ...any)                   { L().Debug(args...) }
func Debugf(template string, args ...any) { L().Debugf(template, args...) }
func Info(args ...any)                    { L().Info(args...) }
func Infof(template string, args ...any)  { L().Infof(template, args...) }
func Infow(msg string, kv ...any)         { L().Infow(msg, kv...) }
func Warn(args ...any)                    { L().Warn(args...) }
func Warnf(template string, args ...any)  { L().Warnf(template, args...) }
func Error(args ...any)                   { L().Error(args...) }
func Errorf(template string, args ...any) { L().Errorf(template, args...) }

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = L().Sync()
}
