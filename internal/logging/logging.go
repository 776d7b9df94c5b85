// Package logging wires up the structured logger every cmd/ subcommand
// shares: a log/slog.Logger fanning diagnostics out to both a
// human-readable stderr stream and, when --log-file is given, a more
// detailed JSON handler writing to that file. Fan-out is delegated to samber/slog-multi rather
// than hand-rolled, the same way the teacher repo reaches for a
// dedicated third-party piece (cobra, viper) instead of writing its own
// flag parser or file-watcher.
package logging

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// New builds the process-wide logger. verbose lowers the minimum level
// on the stderr handler from Info to Debug; extra, when non-nil, is an
// additional writer (e.g. a log file opened by the CLI layer) that
// always receives JSON-formatted records at Debug level regardless of
// verbose, so a developer can replay a run after the fact.
func New(verbose bool, extra io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}
	if extra != nil {
		handlers = append(handlers, slog.NewJSONHandler(extra, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}
