package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey string

const (
	ctxKeySessionID ctxKey = "session_id"
)

// basic global logger, JSON to stdout until Init runs.
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Init replaces the global logger. level is debug, info, warn or error;
// format is "text" or "json".
func Init(level, format string) *slog.Logger {
	return InitWriter(os.Stdout, level, format)
}

// InitWriter is Init with an explicit sink.
func InitWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	logger = slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to slog; unknown names are info.
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

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithSession stores a session_id in the context.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, sessionID)
}

// SessionFromContext returns the session_id, if any.
func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeySessionID).(string)
	return id
}

// LoggerFromContext adds session_id if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	id := SessionFromContext(ctx)
	if id == "" {
		return logger
	}
	return logger.With("session_id", id)
}
