package composite

import (
	"log"

	"github.com/rs/zerolog"
	"go.uber.org/zap"
)

// Logger receives group and scope events: disposal sweeps, handles added too late, broken cancel policies.
// Implementations must be safe for concurrent use, groups log from whichever goroutine calls them.
type Logger interface {
	// Info reports a lifecycle event.
	Info(str string)
	// Error reports a broken invariant.
	Error(str string)
}

// StdLogger writes events to a *log.Logger, one line per event prefixed with its level.
type StdLogger struct {
	l *log.Logger
}

var _ Logger = &StdLogger{}

// NewStdLogger returns a Logger writing to logger.
//
// Example:
//
//	g, err := composite.New(composite.WithLogger(composite.NewStdLogger(log.Default())))
func NewStdLogger(logger *log.Logger) Logger {
	return &StdLogger{
		l: logger,
	}
}

func (l *StdLogger) Info(str string) {
	l.l.Printf("info: %s", str)
}

func (l *StdLogger) Error(str string) {
	l.l.Printf("error: %s", str)
}

// ZapLogger is a logger that adapts Logger to a *zap.Logger.
type ZapLogger struct {
	l *zap.Logger
}

var _ Logger = &ZapLogger{}

// NewZapLogger creates a new Logger that writes to logger.
func NewZapLogger(logger *zap.Logger) Logger {
	return &ZapLogger{
		l: logger,
	}
}

func (l *ZapLogger) Info(str string) {
	l.l.Info(str)
}

func (l *ZapLogger) Error(str string) {
	l.l.Error(str)
}

// ZerologLogger is a logger that adapts Logger to a zerolog.Logger.
type ZerologLogger struct {
	l zerolog.Logger
}

var _ Logger = &ZerologLogger{}

// NewZerologLogger creates a new Logger that writes to logger.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return &ZerologLogger{
		l: logger,
	}
}

func (l *ZerologLogger) Info(str string) {
	l.l.Info().Msg(str)
}

func (l *ZerologLogger) Error(str string) {
	l.l.Error().Msg(str)
}

// NoopLogger drops every event. Groups and scopes use it unless another logger is configured.
type NoopLogger struct{}

var _ Logger = NoopLogger{}

// NewNoopLogger returns a Logger that drops every event.
func NewNoopLogger() Logger {
	return NoopLogger{}
}

func (NoopLogger) Info(string)  {}
func (NoopLogger) Error(string) {}
