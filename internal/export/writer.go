package export

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/image/draw"
)

// Config holds encoder configuration.
type Config struct {
	// MaxWorkers bounds the number of frames encoded at once.
	MaxWorkers int
}

func (c Config) workers() int {
	if c.MaxWorkers <= 0 {
		return 4
	}
	return c.MaxWorkers
}

// FileName returns the name of the PNG written for the frame with sequence
// number seq.
func FileName(prefix string, seq int) string {
	return fmt.Sprintf("%s-%04d.png", prefix, seq)
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := png.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WritePNGs writes every frame to dir as prefix-NNNN.png and returns the
// paths in frame order. Frames are encoded in parallel.
func WritePNGs(ctx context.Context, dir, prefix string, frames []Frame, cfg Config) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	paths := make([]string, len(frames))
	err := parallel(ctx, len(frames), cfg.workers(), func(i int) error {
		path := filepath.Join(dir, FileName(prefix, frames[i].Seq))
		if err := WritePNG(path, frames[i].Image); err != nil {
			return err
		}
		paths[i] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// WriteGIF encodes frames as an endlessly looping animated GIF with delay
// between frames. Frames are quantized to the Plan 9 palette with
// Floyd-Steinberg dithering, in parallel.
func WriteGIF(ctx context.Context, w io.Writer, frames []Frame, delay time.Duration, cfg Config) error {
	if len(frames) == 0 {
		return fmt.Errorf("gif: no frames")
	}

	// GIF delays are in hundredths of a second.
	centis := max(int(delay/(10*time.Millisecond)), 1)

	anim := &gif.GIF{
		Image: make([]*image.Paletted, len(frames)),
		Delay: make([]int, len(frames)),
	}
	err := parallel(ctx, len(frames), cfg.workers(), func(i int) error {
		src := frames[i].Image
		dst := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(dst, dst.Bounds(), src, src.Bounds().Min)
		anim.Image[i] = dst
		anim.Delay[i] = centis
		return nil
	})
	if err != nil {
		return err
	}

	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

// parallel runs fn for 0..n-1 with at most workers running at once and
// returns the first error.
func parallel(ctx context.Context, n, workers int, fn func(i int) error) error {
	errs := make(chan error, n)
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if err := ctx.Err(); err != nil {
				errs <- err
				return
			}
			if err := fn(i); err != nil {
				errs <- fmt.Errorf("frame %d: %w", i, err)
			}
		}(i)
	}

	// Close errs when all goroutines are done
	go func() {
		wg.Wait()
		close(errs)
	}()

	var first error
	for err := range errs {
		if first == nil {
			first = err
		}
	}
	return first
}
