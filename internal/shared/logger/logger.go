package logger

// Logger is the logging surface the metrics and api layers depend on.
// *slog.Logger and the infrastructure logger both satisfy it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
