package app

import (
	"io"
	"log/slog"
)

// NewLogger returns a configured slog.Logger. The console draws its UI on
// stdout, so the binaries pass stderr here to keep the streams apart.
func NewLogger(w io.Writer, format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}
