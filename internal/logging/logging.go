package logging

import (
	"io"
	"log/slog"
	"strings"
)

// New returns the process logger: JSON in production, text otherwise
func New(env string, w io.Writer) *slog.Logger {
	if strings.EqualFold(env, "prod") {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
