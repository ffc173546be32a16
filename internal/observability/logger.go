package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON at info level for deployed
// environments, human-readable text at debug level in dev. Records are routed
// through TraceHandler so log lines carry the active trace id.
func NewLogger(env string) *slog.Logger {
	var handler slog.Handler

	if env == "dev" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}

	return slog.New(NewTraceHandler(handler))
}
