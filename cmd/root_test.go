package cmd

import (
	"bytes"
	"errors"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JPM1118/flick/internal/source"
	"github.com/JPM1118/flick/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the root command with args against a clean flag set and an
// empty config directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		for _, fs := range []*pflag.FlagSet{c.PersistentFlags(), c.Flags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hero.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, testutil.SolidImage(8, 12, color.RGBA{R: 220, G: 90, A: 255})); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStyles_ListsPresets(t *testing.T) {
	cfgPath := writeFile(t, "config.yml", `
playback:
  style: sepia
styles:
  sepia: "grayscale(0.6) brightness(1.1)"
`)

	out, err := execute(t, "styles", "--config", cfgPath)
	if err != nil {
		t.Fatalf("styles: %v", err)
	}

	for _, want := range []string{"NAME", "none", "noir", "soft", "toon", "sepia *", "config", "built-in", "grayscale(0.6) brightness(1.1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFlags_OverrideAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"valid fps", []string{"styles", "--fps", "24"}, ""},
		{"fps too high", []string{"styles", "--fps", "500"}, "fps"},
		{"fps too low to pace", []string{"styles", "--fps", "1e-10"}, "fps"},
		{"zero frames", []string{"styles", "--frames", "0"}, "frames"},
		{"bad log level", []string{"styles", "--log-level", "loud"}, "logging level"},
		{"missing config file", []string{"styles", "--config", "/nonexistent/flick.yml"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestExport_PNGs(t *testing.T) {
	img := writePNG(t)
	dir := t.TempDir()

	out, err := execute(t, "export", img, "--frames", "3", "--cycles", "2", "--out", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Wrote 6 frames") {
		t.Errorf("output = %q", out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Fatalf("wrote %d files, want 6", len(entries))
	}
	if entries[0].Name() != "hero-0000.png" || entries[5].Name() != "hero-0005.png" {
		t.Errorf("files = %s .. %s", entries[0].Name(), entries[5].Name())
	}
}

func TestExport_GIF(t *testing.T) {
	img := writePNG(t)
	out := filepath.Join(t.TempDir(), "hero.gif")

	if _, err := execute(t, "export", img, "--frames", "4", "--fps", "10", "--gif", out); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(anim.Image) != 4 {
		t.Errorf("gif frames = %d, want 4", len(anim.Image))
	}
	if anim.Delay[0] != 10 {
		t.Errorf("delay = %d, want 10", anim.Delay[0])
	}
}

func TestExport_MissingImage(t *testing.T) {
	_, err := execute(t, "export", filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Error("export of a missing image should fail")
	}
}

func TestExport_UnsupportedExtension(t *testing.T) {
	notes := writeFile(t, "notes.txt", "not an image")

	_, err := execute(t, "export", notes, "--out", t.TempDir())
	if !errors.Is(err, source.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRun_WritesFrames(t *testing.T) {
	img := writePNG(t)
	dir := t.TempDir()

	out, err := execute(t, "run", img, "--fps", "50", "--duration", "150ms", "--out", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "frame 2/4") {
		t.Errorf("output should list frame changes, got:\n%s", out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	// The initial draw plus at least one advancement.
	if len(entries) < 2 {
		t.Fatalf("wrote %d files, want at least 2", len(entries))
	}
	if entries[0].Name() != "hero-0000.png" {
		t.Errorf("first file = %s, want hero-0000.png", entries[0].Name())
	}

	f, err := os.Open(filepath.Join(dir, entries[1].Name()))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("decode %s: %v", entries[1].Name(), err)
	}
}

func TestRun_UnsupportedExtension(t *testing.T) {
	_, err := execute(t, "run", writeFile(t, "hero.psd", "x"), "--duration", "10ms")
	if !errors.Is(err, source.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}
