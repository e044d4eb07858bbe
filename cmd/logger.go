package cmd

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// newLogger returns a structured text logger writing to w at the configured
// level.
func newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// previewLogger returns the logger for the interactive previewer. The
// terminal belongs to the UI, so logs go to the configured file or nowhere.
func previewLogger() (*slog.Logger, func() error, error) {
	if cfg.Logging.File == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	f, err := tea.LogToFile(cfg.Logging.File, "flick")
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f), f.Close, nil
}

// headlessLogger returns the logger for commands that do not own the
// terminal: the configured file if any, stderr otherwise.
func headlessLogger() (*slog.Logger, func() error, error) {
	if cfg.Logging.File == "" {
		return newLogger(os.Stderr), func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return newLogger(f), f.Close, nil
}
