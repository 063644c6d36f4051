package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	*slog.Logger
}

type loggerKeyType struct{}

var loggerKey loggerKeyType = struct{}{}

// Options selects the handler, level and destination of a Logger
type Options struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string
	// Format is json or text (default: text)
	Format string
	// Output is stdout, stderr, or a file path (default: stdout)
	Output string
}

// DefaultLogger creates a logger using slog.Default()
func DefaultLogger() *Logger {
	return &Logger{
		Logger: slog.Default(),
	}
}

// NewLogger creates a configured logger from opts
func NewLogger(opts Options) *Logger {
	return &Logger{
		Logger: slog.New(newHandler(openOutput(opts.Output), opts)),
	}
}

// NewLoggerTo creates a logger that writes to w, ignoring opts.Output
func NewLoggerTo(w io.Writer, opts Options) *Logger {
	return &Logger{
		Logger: slog.New(newHandler(w, opts)),
	}
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	hOpts := &slog.HandlerOptions{
		Level: ParseLevel(opts.Level),
	}
	if strings.ToLower(opts.Format) == "json" {
		return slog.NewJSONHandler(w, hOpts)
	}
	return slog.NewTextHandler(w, hOpts)
}

func openOutput(output string) io.Writer {
	switch output {
	case "", "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Fallback to stdout if file can't be opened
		return os.Stdout
	}
	return file
}

// ParseLevel parses a log level name, defaulting to info
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// KnownLevel reports whether levelStr names a level ParseLevel understands
func KnownLevel(levelStr string) bool {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

// SLog returns the underlying slog.Logger
func (l *Logger) SLog() *slog.Logger {
	return l.Logger
}

// SetDefaultLogger sets the logger as the default slog logger
func SetDefaultLogger(l *Logger) {
	slog.SetDefault(l.Logger)
}

// WithContext stores l in ctx
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or the default logger
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey).(*Logger); ok && l != nil {
		return l
	}
	return DefaultLogger()
}
