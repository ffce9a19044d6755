// Package logger wraps zerolog behind a small fixed surface so the
// rest of the service never touches zerolog directly.
// ⭐ SSOT: all logging goes through this package
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zodiacal/horoscope-api/pkg/config"
)

// Logger emits structured log lines. Every entry carries the service
// name and environment; With* methods derive children with extra
// fields.
type Logger struct {
	zlog zerolog.Logger
}

// New builds the process logger from config: LOG_FORMAT selects the
// writer, LOG_LEVEL the global threshold.
func New(cfg *config.Config) *Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.LogLevel))

	zlog := zerolog.New(writerFor(cfg.LogFormat)).
		With().
		Timestamp().
		Str("service", "horoscope-api").
		Str("env", cfg.Env).
		Logger()

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// writerFor picks the output writer: human-readable console for
// development, JSON lines for everything else.
func writerFor(format string) io.Writer {
	if format == "console" || format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return os.Stdout
}

var levelNames = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// parseLevel maps a LOG_LEVEL string onto a zerolog level, defaulting
// to info for anything it does not recognize.
func parseLevel(name string) zerolog.Level {
	if lvl, ok := levelNames[strings.ToLower(name)]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}

// WithField derives a logger carrying one extra field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	child := l.zlog.With().Interface(key, value).Logger()
	return &Logger{zlog: child}
}

// WithFields derives a logger carrying several extra fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithError derives a logger carrying the error under the "error" key.
func (l *Logger) WithError(err error) *Logger {
	child := l.zlog.With().Err(err).Logger()
	return &Logger{zlog: child}
}

// Leveled emitters. Fatal exits the process after writing.

func (l *Logger) Debug(msg string) { l.zlog.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zlog.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.zlog.Warn().Msg(msg) }
func (l *Logger) Error(msg string) { l.zlog.Error().Msg(msg) }
func (l *Logger) Fatal(msg string) { l.zlog.Fatal().Msg(msg) }

// Formatted variants of the leveled emitters.

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.zlog.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}
