package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger and remembers the component it logs for.
// base carries every attribute except the component, so retagging replaces
// the component instead of appending a second one.
type Logger struct {
	*slog.Logger
	base      *slog.Logger
	component string
}

func newTagged(base *slog.Logger, component string) *Logger {
	return &Logger{
		Logger:    base.With(FieldComponent, component),
		base:      base,
		component: component,
	}
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
	Handler   slog.Handler
}

// DefaultConfig returns a text handler on stdout at info level.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Output:    os.Stdout,
	}
}

// New creates a logger. An explicit Handler wins over Level and Output.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		out := config.Output
		if out == nil {
			out = os.Stdout
		}
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: config.Level})
	}
	component := config.Component
	if component == "" {
		component = ComponentApp
	}
	return newTagged(slog.New(handler), component)
}

// With returns a logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return newTagged(l.base.With(args...), l.component)
}

// WithComponent returns a child logger tagged with component in place of
// the current one.
func (l *Logger) WithComponent(component string) *Logger {
	if component == l.component {
		return l
	}
	return newTagged(l.base, component)
}

func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs logger, minus its component, as the process-wide slog
// default.
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.base)
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
