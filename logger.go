package rendergraph

import (
	"log/slog"
	"sync/atomic"
)

// discard is returned by Logger until SetLogger installs a logger. Its
// handler reports every level disabled, so records are never built.
var discard = slog.New(slog.DiscardHandler)

// active holds the logger installed by SetLogger, or nil.
var active atomic.Pointer[slog.Logger]

// SetLogger configures the logger for rendergraph and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
// SetLogger may be called while other goroutines are logging.
//
// Levels by package:
//   - [slog.LevelDebug]: graph pass lifecycle, native submissions, span
//     timings, the core2d viewport quirk pass, backend registration
//   - [slog.LevelInfo]: render capability detection
//   - [slog.LevelWarn]: the attachment "always" policy, missing timestamp
//     support in diagnostic
//
// Example:
//
//	rendergraph.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	active.Store(l)
}

// Logger returns the logger sub-packages write to.
func Logger() *slog.Logger {
	if l := active.Load(); l != nil {
		return l
	}
	return discard
}
