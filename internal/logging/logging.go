// Package logging provides the leveled, line-oriented console logger used by
// every devsetup step. Lines look like:
//
//	[INFO] 2025-01-02 15:04:05 poetry already installed at /home/me/.local/bin/poetry
//
// Info, Warn and Debug lines go to stdout; Error lines go to stderr.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TimeLayout is the timestamp format of every log line.
const TimeLayout = "2006-01-02 15:04:05"

// Logger writes timestamped leveled lines. The zero value is not usable; use New or Nop.
type Logger struct {
	zl  zerolog.Logger
	now func() time.Time
}

// Options configures a Logger.
type Options struct {
	// Stdout receives Debug, Info and Warn lines.
	Stdout io.Writer
	// Stderr receives Error lines.
	Stderr io.Writer
	// Debug enables Debug lines.
	Debug bool
	// Now overrides the clock (tests).
	Now func() time.Time
}

// New creates a Logger that routes lines by level.
func New(opts Options) *Logger {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	w := levelRouter{
		out: consoleWriter(opts.Stdout),
		err: consoleWriter(opts.Stderr),
	}

	return &Logger{
		zl:  zerolog.New(w).Level(level),
		now: opts.Now,
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop(), now: time.Now}
}

// consoleWriter renders "[LEVEL] timestamp message" with no fields and no colors.
func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.TimestampFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i interface{}) string {
			return "[" + strings.ToUpper(fmt.Sprint(i)) + "]"
		},
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprint(i)
		},
		FormatMessage: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
}

// levelRouter sends Error and above to err, everything else to out.
type levelRouter struct {
	out io.Writer
	err io.Writer
}

func (r levelRouter) Write(p []byte) (int, error) {
	return r.out.Write(p)
}

func (r levelRouter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level >= zerolog.ErrorLevel && level != zerolog.NoLevel {
		return r.err.Write(p)
	}
	return r.out.Write(p)
}

func (l *Logger) emit(e *zerolog.Event, format string, args ...any) {
	if e == nil {
		return
	}
	e.Str(zerolog.TimestampFieldName, l.now().Format(TimeLayout)).Msgf(format, args...)
}

// Debugf logs a Debug line. Debug lines are only written when enabled.
func (l *Logger) Debugf(format string, args ...any) {
	l.emit(l.zl.Debug(), format, args...)
}

// Infof logs an Info line.
func (l *Logger) Infof(format string, args ...any) {
	l.emit(l.zl.Info(), format, args...)
}

// Warnf logs a Warn line.
func (l *Logger) Warnf(format string, args ...any) {
	l.emit(l.zl.Warn(), format, args...)
}

// Errorf logs an Error line to stderr.
func (l *Logger) Errorf(format string, args ...any) {
	l.emit(l.zl.Error(), format, args...)
}

// DebugEnabled reports whether Debug lines are written.
func (l *Logger) DebugEnabled() bool {
	return l.zl.GetLevel() <= zerolog.DebugLevel
}
