// Package logging builds the leveled logger shared by the generator and the CLI.
//
// Loggers are logr.Logger values backed by zap. Three levels are used:
// logger.Error for failures, logger.Info for progress and logger.V(1).Info for
// diagnostic detail that only appears in verbose mode.
package logging

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level selects which messages reach the sink.
type Level int

const (
	// LevelError emits errors only (--quiet).
	LevelError Level = iota
	// LevelInfo emits errors and info messages.
	LevelInfo
	// LevelDebug additionally emits V(1) messages (--verbose).
	LevelDebug
)

// LevelFor maps the CLI verbosity flags to a Level. Verbose wins over quiet.
func LevelFor(verbose, quiet bool) Level {
	switch {
	case verbose:
		return LevelDebug
	case quiet:
		return LevelError
	default:
		return LevelInfo
	}
}

// New returns a console logger writing to w.
func New(w io.Writer, level Level) logr.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.CallerKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		zapLevel(level),
	)
	return zapr.NewLogger(zap.New(core, zap.AddStacktrace(zapcore.PanicLevel)))
}

// Discard returns a logger that drops everything.
func Discard() logr.Logger {
	return logr.Discard()
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case LevelError:
		return zapcore.ErrorLevel
	case LevelDebug:
		// logr V(1) maps to zap level -1, which is DebugLevel.
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
