package strata

// Logger accepts the slog calling convention: a message followed by
// alternating keys and values. slog.Logger satisfies it directly; the
// logger package has adapters for zap and logrus.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
}

// DiscardLogger is the default no-op logger.
type DiscardLogger struct{}

func (DiscardLogger) Error(string, ...any) {}
func (DiscardLogger) Warn(string, ...any)  {}
func (DiscardLogger) Info(string, ...any)  {}
