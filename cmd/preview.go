package cmd

import (
	"fmt"

	"github.com/JPM1118/flick/internal/notify"
	"github.com/JPM1118/flick/internal/playback"
	"github.com/JPM1118/flick/internal/source"
	"github.com/JPM1118/flick/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview [image]",
	Short: "Launch the interactive previewer",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(args)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(args []string) error {
	logger, closeLog, err := previewLogger()
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer closeLog()

	renderer, styles, err := newRenderer()
	if err != nil {
		return err
	}
	session, err := newSession(renderer, playback.WithLogger(logger))
	if err != nil {
		return err
	}

	opts := []tui.Option{
		tui.WithStyles(styles),
		tui.WithFrames(cfg.Playback.Frames, cfg.Playback.Offsets),
		tui.WithRefreshInterval(cfg.Playback.RefreshInterval.Duration),
		tui.WithNotifyBar(notify.NewBar(20, 2)),
		tui.WithLogger(logger),
	}
	if len(args) == 1 {
		opts = append(opts, tui.WithImage(&source.File{}, args[0]))
	}
	logger.Info("previewer starting", "frames", session.Len(), "fps", session.FPS(), "style", session.Style())

	model := tui.NewPreview(session, renderer, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	if m, ok := finalModel.(tui.Preview); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
