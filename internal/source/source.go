package source

import (
	"context"
	"image"
)

// Loader provides the raster image shown by the previewer.
// File implements this interface. Tests can provide mock implementations.
type Loader interface {
	Load(ctx context.Context, path string) (image.Image, error)
}
