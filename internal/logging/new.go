package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects and tunes a backend.
type Options struct {
	// Backend is "slog" (default) or "zerolog".
	Backend string
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string
	// Format is "text" (default) or "json".
	Format string
	// File, when set, sends output to a size-rotated file instead of Output.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Output defaults to os.Stderr.
	Output io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a Logger from opts. The returned closer releases the log file,
// if any, and must be called on shutdown.
func New(opts Options) (Logger, io.Closer) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		out, closer = lj, lj
	}

	json := strings.EqualFold(opts.Format, "json")

	switch strings.ToLower(opts.Backend) {
	case "zerolog":
		var w io.Writer = out
		if !json {
			w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.File != ""}
		}
		zl := zerolog.New(w).Level(zerologLevel(opts.Level)).With().Timestamp().Logger()
		return NewZerologLogger(zl), closer
	default:
		ho := &slog.HandlerOptions{Level: slogLevel(opts.Level)}
		var h slog.Handler
		if json {
			h = slog.NewJSONHandler(out, ho)
		} else {
			h = slog.NewTextHandler(out, ho)
		}
		return NewSlogLogger(slog.New(h)), closer
	}
}

func slogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func zerologLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
