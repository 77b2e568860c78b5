package logging

import (
	"context"
	"io"
	"log/slog"
)

// SlogLogger adapts a *slog.Logger to the Logger interface. The server runs
// it over a JSON handler on stdout; connection goroutines derive children via
// With to tag every record with conn_id and remote.
type SlogLogger struct {
	l *slog.Logger
}

// NewSlogLogger wraps an already-configured slog logger.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// NewJSON returns a logger emitting one JSON record per line to w. This is
// the production configuration; tests pass io.Discard.
func NewJSON(w io.Writer) *SlogLogger {
	return &SlogLogger{l: slog.New(slog.NewJSONHandler(w, nil))}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.ErrorContext(ctx, msg, args...)
}

// With returns a child logger whose records always carry the given key-value
// pairs in addition to per-call attributes.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{l: s.l.With(args...)}
}
