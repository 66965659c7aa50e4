// Package logging builds the slog logger used by the thresh CLI.
//
// Output is human-readable text when writing to a terminal and JSON
// otherwise, so piped runs can be collected by log shippers. Every logger
// carries a run_id attribute identifying one CLI invocation.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Format selects the handler encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts auto, text or json.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatText, FormatJSON:
		return f, nil
	case "":
		return FormatAuto, nil
	default:
		return FormatAuto, fmt.Errorf("unknown log format %q", s)
	}
}

// Config configures New. The zero value logs Info and above, picking the
// encoding from the writer.
type Config struct {
	Level  Level
	Format Format
	RunID  string // generated when empty
}

// New returns a logger writing to w.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}

	var handler slog.Handler
	if useText(w, cfg.Format) {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}
	return slog.New(handler).With("run_id", runID)
}

// NewRunID returns a random identifier for one invocation.
func NewRunID() string {
	return uuid.NewString()
}

func useText(w io.Writer, format Format) bool {
	switch format {
	case FormatText:
		return true
	case FormatJSON:
		return false
	default:
		return IsTerminal(w)
	}
}

// IsTerminal reports whether w is a terminal (including Cygwin ptys).
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
