package logging

import (
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout.
// Development runs at debug level, everything else at info.
func Setup(env string) {
	slog.SetDefault(slog.New(NewStdoutHandler(env)))
}

// NewStdoutHandler builds the JSON stdout handler used as the primary log
// destination.
func NewStdoutHandler(env string) slog.Handler {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}
