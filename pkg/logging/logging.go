// Package logging configures structured logging for the server.
//
// Usage:
//
//	logging.Setup(slog.LevelInfo, "text")   // colored output with tint
//	logging.Setup(slog.LevelDebug, "json")  // JSON lines for log collectors
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup installs the default slog logger writing to stderr.
func Setup(level slog.Level, format string) {
	slog.SetDefault(New(os.Stderr, level, format))
}

// New builds a logger. Format "json" selects the JSON handler; anything else
// selects tint.
func New(w io.Writer, level slog.Level, format string) *slog.Logger {
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		}))
	}
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
			NoColor:    !isTerminal(w),
		}),
	)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
