// Package log configures the process-wide structured logger. Call
// Setup once from main; everything else logs through the package-level
// log/slog functions directly, the same pattern the example pack uses
// (slog.Info/Debug/Warn calls scattered through a codebase rather than
// a logger threaded through every function signature).
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text handler writing to stderr (so stdout stays
// free for piped image output) at the requested verbosity.
func Setup(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
