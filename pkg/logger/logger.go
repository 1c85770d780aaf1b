package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var pid = os.Getpid()

// Logger is a zerolog logger with the recorder tag (s) and
// the recording session (sid) fields.
type Logger struct {
	logger *zerolog.Logger
}

// NewConsole makes a human-readable logger into stdout.
// The tag is printed in front of every message of the logger (i.e. rec).
func NewConsole(isDebug bool, tag string, noColor bool) *Logger {
	setLevel(isDebug)
	zerolog.TimeFieldFormat = time.RFC3339Nano
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.0000", NoColor: noColor,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			"pid",
			zerolog.LevelFieldName,
			"s",
			"sid",
			zerolog.MessageFieldName,
		},
		FieldsExclude: []string{"s", "sid", "pid"},
	}
	if noColor {
		output.FormatMessage = func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		}
	}
	logger := zerolog.New(output).With().
		Str("pid", fmt.Sprintf("%4x", pid)).
		Str("s", tag).
		Str("sid", " ").
		Timestamp().Logger()
	return &Logger{logger: &logger}
}

// NewWriter makes a JSON logger with a custom output, mostly for tests.
func NewWriter(w io.Writer) *Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{logger: &logger}
}

func Default() *Logger { return &Logger{logger: &log.Logger} }

func setLevel(isDebug bool) {
	level := zerolog.InfoLevel
	if isDebug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func (l *Logger) Debug() *zerolog.Event { return l.logger.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.logger.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.logger.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.logger.Error() }

// Tagged returns a child logger with the console tag replaced.
func (l *Logger) Tagged(tag string) *Logger { return l.extend(l.logger.With().Str("s", tag)) }

// WithSession returns a child logger that marks every message with
// a recording session id.
func (l *Logger) WithSession(id string) *Logger { return l.extend(l.logger.With().Str("sid", id)) }

func (l *Logger) extend(ctx zerolog.Context) *Logger {
	logger := ctx.Logger()
	return &Logger{logger: &logger}
}
