package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/randomferns/pkg/errors"
)

// ZerologLogger implements Logger on top of zerolog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a JSON logger writing to w at the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	return &ZerologLogger{
		logger: zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger(),
	}
}

// Debug implements Logger.Debug.
func (z *ZerologLogger) Debug(msg string, fields ...any) {
	emit(z.logger.Debug(), msg, fields)
}

// Info implements Logger.Info.
func (z *ZerologLogger) Info(msg string, fields ...any) {
	emit(z.logger.Info(), msg, fields)
}

// Warn implements Logger.Warn.
func (z *ZerologLogger) Warn(msg string, fields ...any) {
	emit(z.logger.Warn(), msg, fields)
}

// Error implements Logger.Error. A leading error field is attached with Err
// together with its ErrorCodeKey.
func (z *ZerologLogger) Error(msg string, fields ...any) {
	ev := z.logger.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if code := ErrorCode(err); code != "" {
				ev = ev.Str(ErrorCodeKey, code)
			}
			fields = fields[1:]
		}
	}
	emit(ev, msg, fields)
}

// With implements Logger.With.
func (z *ZerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			ctx = ctx.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			ctx = ctx.Object(key, v)
		default:
			ctx = ctx.Interface(key, v)
		}
	}
	return &ZerologLogger{logger: ctx.Logger()}
}

// Enabled implements Logger.Enabled.
func (z *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	lvl := toZerologLevel(level)
	return lvl >= z.logger.GetLevel() && lvl >= zerolog.GlobalLevel()
}

func emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			if m, ok := v.(zerolog.LogObjectMarshaler); ok {
				ev = ev.Object(key, m)
				continue
			}
			ev = ev.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Provider is the process-wide LoggerProvider used by the library packages.
type Provider struct {
	mu     sync.RWMutex
	out    io.Writer
	level  Level
	custom Logger
	root   *ZerologLogger
}

// NewProvider creates a zerolog-backed provider writing to out.
func NewProvider(out io.Writer, level Level) *Provider {
	return &Provider{out: out, level: level, root: NewZerologLogger(out, level)}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *Provider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.custom != nil {
		return p.custom
	}
	return p.root
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *Provider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel. It only affects the zerolog root.
func (p *Provider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
	p.root = NewZerologLogger(p.out, level)
}

// SetLogger replaces the logger handed out by the provider; nil restores the zerolog root.
func (p *Provider) SetLogger(l Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.custom = l
}

var global = NewProvider(os.Stderr, LevelWarn)

func init() {
	errors.SetZerologWarnFunc(func(w error) {
		GetLogger().Warn(w.Error(), "warning", w)
	})
}

// GetLogger returns the process-wide logger.
func GetLogger() Logger {
	return global.GetLogger()
}

// GetLoggerWithName returns the process-wide logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	return global.GetLoggerWithName(name)
}

// SetLevel sets the minimum level of the process-wide zerolog logger.
func SetLevel(level Level) {
	global.SetLevel(level)
}

// SetLogger installs a custom process-wide logger; pass nil to restore the default.
func SetLogger(l Logger) {
	global.SetLogger(l)
}
