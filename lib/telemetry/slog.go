package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog sets the default slog handler for the process. debug=true
// enables debug-level output, which also turns on verbose http request
// logging in instrumented resty clients.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
