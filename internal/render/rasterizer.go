// Package render turns PDF pages into JPEG slide backgrounds.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"golang.org/x/image/draw"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
)

const (
	DefaultMagnification = 2.0
	DefaultQuality       = 80
)

// Rasterizer renders pages at a fixed magnification and encodes them as JPEG.
type Rasterizer struct {
	magnification float64
	quality       int
	logger        *observability.Logger
}

// NewRasterizer creates a rasterizer. Zero values fall back to the defaults.
func NewRasterizer(magnification float64, quality int, logger *observability.Logger) *Rasterizer {
	if magnification <= 0 {
		magnification = DefaultMagnification
	}
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Rasterizer{
		magnification: magnification,
		quality:       quality,
		logger:        logger.WithOperation("render"),
	}
}

// TargetSize is the pixel buffer size for a page: ceil(w·m) × ceil(h·m).
func TargetSize(box domain.PageBox, magnification float64) (int, int) {
	return int(math.Ceil(box.Width * magnification)), int(math.Ceil(box.Height * magnification))
}

// Rasterize renders one page. Any failure is a RenderError.
func (r *Rasterizer) Rasterize(ctx context.Context, doc domain.Document, page int) (*domain.RasterImage, error) {
	box, err := doc.PageBox(page)
	if err != nil {
		return nil, domain.RenderError(fmt.Sprintf("page %d has no usable page box", page), err)
	}

	width, height := TargetSize(box, r.magnification)
	if width <= 0 || height <= 0 {
		return nil, domain.RenderError(fmt.Sprintf("page %d has an empty page box", page), nil)
	}

	img, err := doc.RenderPage(ctx, page, r.magnification)
	if err != nil {
		return nil, domain.RenderError(fmt.Sprintf("page %d could not be rendered", page), err)
	}

	img = fit(img, width, height)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, domain.RenderError(fmt.Sprintf("page %d could not be encoded as JPEG", page), err)
	}

	r.logger.Debug().
		Int("page", page).
		Int("width", width).
		Int("height", height).
		Int("bytes", buf.Len()).
		Msg("page rasterized")

	return &domain.RasterImage{
		Data:          buf.Bytes(),
		Width:         width,
		Height:        height,
		Magnification: r.magnification,
		ContentType:   "image/jpeg",
	}, nil
}

// fit resamples img to exactly width × height when the backend rounded differently.
func fit(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
