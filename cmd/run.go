package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/JPM1118/flick/internal/export"
	"github.com/JPM1118/flick/internal/playback"
	"github.com/spf13/cobra"
)

var (
	runDuration time.Duration
	runOut      string
)

var runCmd = &cobra.Command{
	Use:   "run <image>",
	Short: "Play the animation headless in real time",
	Long: `Play the animation without a UI for a fixed duration, printing each
frame change. With --out, every drawn frame is also written as a PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runHeadless(ctx, cmd.OutOrStdout(), args[0])
	},
}

func init() {
	runCmd.Flags().DurationVarP(&runDuration, "duration", "d", 3*time.Second, "how long to play")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "directory for a PNG of every drawn frame")
	rootCmd.AddCommand(runCmd)
}

func runHeadless(ctx context.Context, out io.Writer, path string) error {
	logger, closeLog, err := headlessLogger()
	if err != nil {
		return fmt.Errorf("log file: %w", err)
	}
	defer closeLog()

	img, err := loadImage(ctx, path)
	if err != nil {
		return err
	}

	renderer, _, err := newRenderer()
	if err != nil {
		return err
	}
	renderer.SetImage(img)

	rec := export.NewRecorder(renderer, false)
	if runOut != "" {
		if err := os.MkdirAll(runOut, 0o755); err != nil {
			return err
		}
		prefix := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		rec.OnCapture = func(f export.Frame) error {
			return export.WritePNG(filepath.Join(runOut, export.FileName(prefix, f.Seq)), f.Image)
		}
	}

	session, err := newSession(rec, playback.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := session.Render(); err != nil {
		return err
	}

	start := time.Now()
	loop := playback.NewLoop(session, playback.LoopConfig{
		RefreshInterval: cfg.Playback.RefreshInterval.Duration,
		OnFrameChange: func(index int) {
			fmt.Fprintf(out, "%8s  frame %d/%d\n", time.Since(start).Truncate(time.Millisecond), index+1, session.Len())
		},
		OnError: func(err error) {
			logger.Error("tick failed", "err", err)
		},
	})

	ctx, cancel := context.WithTimeout(ctx, runDuration)
	defer cancel()

	logger.Info("playing", "image", path, "frames", session.Len(), "fps", session.FPS(), "duration", runDuration)
	loop.Resume()
	err = loop.Run(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		err = nil
	}

	logger.Info("stopped", "drawn", rec.Len())
	return err
}
