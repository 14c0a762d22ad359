package compositor

import (
	"log/slog"
	"sync/atomic"
)

// silent drops every record. Its handler reports every level disabled,
// so per-quad Debug calls cost nothing when no logger is installed.
var silent = slog.New(slog.DiscardHandler)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(silent)
}

// SetLogger installs l as the destination for the renderer, the resource
// provider, the output devices and the pass cache. A nil l turns logging
// off again, which is also the initial state. SetLogger may be called
// while frames are being drawn.
//
// What each level carries:
//   - [slog.LevelDebug]: quads drawn with a fallback or skipped, and why;
//     pass bitmaps evicted; frames abandoned
//   - [slog.LevelInfo]: visibility changes and presenter setup
//   - [slog.LevelWarn]: frames that could not be begun, finished or swapped
//
// To see per-quad decisions on stderr:
//
//	compositor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	logger.Store(l)
}

// Logger returns the installed logger.
func Logger() *slog.Logger {
	return logger.Load()
}
