package logging

import (
	"log/slog"
	"os"
)

// Init configures the process-wide logger. Warnings and errors are
// always emitted; verbose mode enables debug output.
func Init(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
