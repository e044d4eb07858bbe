package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned when no registered decoder recognises the data.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultMaxBytes caps the size of an image file.
const DefaultMaxBytes = 32 << 20

// File loads images from the local filesystem.
type File struct {
	// MaxBytes limits the file size. Zero means DefaultMaxBytes.
	MaxBytes int64
}

var _ Loader = (*File)(nil)

// Load opens and decodes the image at path.
func (f *File) Load(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer fh.Close()

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	info, err := fh.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.Size() > limit {
		return nil, fmt.Errorf("image %s is %d bytes, limit is %d", filepath.Base(path), info.Size(), limit)
	}

	img, _, err := Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, ctx.Err()
}

// Decode reads an image in any registered format and returns it with the
// format name.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(bufio.NewReader(r))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", ErrUnsupportedFormat
	}
	if err != nil {
		return nil, "", err
	}
	return img, format, nil
}

// Formats lists the file extensions the loader understands.
func Formats() []string {
	return []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp"}
}

// Supported reports whether path has a known image extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats() {
		if ext == f {
			return true
		}
	}
	return false
}
