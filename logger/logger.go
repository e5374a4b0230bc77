package logger

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type Level = zerolog.Level

const (
	LevelDebug = zerolog.DebugLevel
	LevelInfo  = zerolog.InfoLevel
	LevelWarn  = zerolog.WarnLevel
	LevelError = zerolog.ErrorLevel
)

type Fields map[string]interface{}

// Logger wraps a zerolog.Logger with the small Info/Debug/Warn/Error API
// used across pagekit.
type Logger struct {
	Z zerolog.Logger
}

var (
	std          atomic.Pointer[Logger]
	colorEnabled atomic.Bool
)

var levelCodes = map[zerolog.Level][2]string{
	zerolog.DebugLevel: {"DBG", "36"},
	zerolog.InfoLevel:  {"INF", "32"},
	zerolog.WarnLevel:  {"WRN", "33"},
	zerolog.ErrorLevel: {"ERR", "31"},
}

func wrap(s, code string, color bool) string {
	if !color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// NewConsole creates a ConsoleWriter-backed logger printing short level codes
// and "3:04PM" timestamps.
func NewConsole(out io.Writer, level Level, color bool) *Logger {
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: "3:04PM", NoColor: !color}
	colorEnabled.Store(color)

	cw.FormatLevel = func(i interface{}) string {
		lvl := zerolog.NoLevel
		switch v := i.(type) {
		case string:
			if parsed, err := zerolog.ParseLevel(v); err == nil {
				lvl = parsed
			}
		case zerolog.Level:
			lvl = v
		}
		c, ok := levelCodes[lvl]
		if !ok {
			return ""
		}
		return wrap(c[0], c[1], color)
	}
	cw.FormatTimestamp = func(i interface{}) string {
		switch v := i.(type) {
		case time.Time:
			return wrap(v.Format("3:04PM"), "2", color)
		case string:
			return wrap(v, "2", color)
		}
		return ""
	}

	return &Logger{Z: zerolog.New(cw).With().Timestamp().Logger().Level(level)}
}

// NewJSON returns a logger writing one JSON object per line.
func NewJSON(out io.Writer, level Level) *Logger {
	return &Logger{Z: zerolog.New(out).With().Timestamp().Logger().Level(level)}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Z: zerolog.Nop()}
}

// Colorize wraps s with the ANSI SGR code when the console logger has colors on.
func Colorize(s string, code string) string {
	return wrap(s, code, colorEnabled.Load())
}

// SetStd replaces the package logger. A nil logger silences it.
func SetStd(l *Logger) {
	if l == nil {
		l = NewNop()
	}
	std.Store(l)
}

// Std returns the package logger, creating a colored console logger on first use.
func Std() *Logger {
	if l := std.Load(); l != nil {
		return l
	}
	std.CompareAndSwap(nil, NewConsole(os.Stdout, LevelInfo, true))
	return std.Load()
}

func send(e *zerolog.Event, msg string, f Fields) {
	if f != nil {
		e = e.Fields(map[string]interface{}(f))
	}
	e.Msg(msg)
}

func (l *Logger) Info(msg string, f Fields)  { send(l.Z.Info(), msg, f) }
func (l *Logger) Debug(msg string, f Fields) { send(l.Z.Debug(), msg, f) }
func (l *Logger) Warn(msg string, f Fields)  { send(l.Z.Warn(), msg, f) }
func (l *Logger) Error(msg string, f Fields) { send(l.Z.Error(), msg, f) }

func Info(msg string, f Fields)  { Std().Info(msg, f) }
func Debug(msg string, f Fields) { Std().Debug(msg, f) }
func Warn(msg string, f Fields)  { Std().Warn(msg, f) }
func Error(msg string, f Fields) { Std().Error(msg, f) }
