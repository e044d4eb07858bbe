package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/JPM1118/flick/internal/config"
	"github.com/JPM1118/flick/internal/playback"
	"github.com/JPM1118/flick/internal/render"
	"github.com/JPM1118/flick/internal/source"
	"github.com/JPM1118/flick/internal/style"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	numFrames int
	frameRate float64
	styleArg  string
	logFile   string
	logLevel  string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "flick [image]",
	Short: "Terminal previewer for sprite frame animations",
	Long: `flick plays a single character image as a looping frame animation.
Each frame shifts the image by its own offset; styles tint the result.

Run with an image path to launch the previewer.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(args)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/flick/config.yml)")
	pf.IntVarP(&numFrames, "frames", "n", 0, "number of frames in the sequence")
	pf.Float64Var(&frameRate, "fps", 0, "playback rate in frames per second")
	pf.StringVarP(&styleArg, "style", "s", "", "style preset to apply")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(cmd *cobra.Command) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Playback.Frames = numFrames
	}
	if flags.Changed("fps") {
		cfg.Playback.FPS = frameRate
	}
	if flags.Changed("style") {
		cfg.Playback.Style = styleArg
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	// Offsets beyond a reduced frame count are dropped.
	if len(cfg.Playback.Offsets) > cfg.Playback.Frames && cfg.Playback.Frames >= 0 {
		cfg.Playback.Offsets = cfg.Playback.Offsets[:cfg.Playback.Frames]
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// loadImage reads the image at path, rejecting unknown extensions before
// touching the file.
func loadImage(ctx context.Context, path string) (image.Image, error) {
	if !source.Supported(path) {
		return nil, fmt.Errorf("%s: %w (want one of %s)", path, source.ErrUnsupportedFormat, strings.Join(source.Formats(), " "))
	}
	return (&source.File{}).Load(ctx, path)
}

// newRenderer creates the configured surface and its renderer.
func newRenderer() (*render.Renderer, *style.Registry, error) {
	styles, err := cfg.StyleRegistry()
	if err != nil {
		return nil, nil, err
	}
	surface := render.NewSurface(cfg.Surface.Width, cfg.Surface.Height)
	return render.NewRenderer(surface, styles), styles, nil
}

// newSession creates a paused session drawing through r, with the
// configured frame count, offsets, rate and style.
func newSession(r playback.Renderer, opts ...playback.Option) (*playback.Session, error) {
	p := cfg.Playback
	opts = append([]playback.Option{
		playback.WithRenderer(r),
		playback.WithStyle(p.Style),
	}, opts...)

	s := playback.NewSession(p.Frames, opts...)
	if err := s.SetFPS(p.FPS); err != nil {
		return nil, err
	}
	for i, f := range p.Offsets {
		if err := s.SetFrame(i, f); err != nil {
			return nil, fmt.Errorf("offset %d: %w", i, err)
		}
	}
	return s, nil
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
