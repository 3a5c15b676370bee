package hellomesh

import (
	"log/slog"

	"github.com/gogpu/hellomesh/internal/logging"
)

// SetLogger configures the logger for hellomesh and all its sub-packages.
// By default, hellomesh produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by hellomesh:
//   - [slog.LevelDebug]: buffer sizes, pipeline and frame details
//   - [slog.LevelInfo]: adapter selection, completed stages, exported files
//   - [slog.LevelWarn]: non-fatal issues (resource release errors)
//
// Example:
//
//	hellomesh.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by hellomesh.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
