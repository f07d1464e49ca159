package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/httplog/v3"
)

// New builds the process logger and installs it as the slog default.
// Format "json" emits ECS fields, "text" adds source locations for local runs.
func New(level, format, env string) *slog.Logger {
	logger := newWithWriter(os.Stdout, level, format, env)
	slog.SetDefault(logger)
	return logger
}

func newWithWriter(w io.Writer, level, format, env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		opts.AddSource = true
		handler = slog.NewTextHandler(w, opts)
	} else {
		opts.ReplaceAttr = httplog.SchemaECS.Concise(false).ReplaceAttr
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("app", "hris-payrun"),
		slog.String("env", env),
	)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
