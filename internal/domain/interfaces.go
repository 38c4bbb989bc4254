package domain

import (
	"context"
	"image"
)

// Loader opens raw PDF bytes.
type Loader interface {
	// Load validates data and returns an open document. Failures are LoadErrors.
	Load(ctx context.Context, data []byte) (Document, error)
}

// Document is an open PDF. Page numbers are 1-based.
type Document interface {
	PageCount() int
	PageBox(page int) (PageBox, error)
	// RenderPage rasterizes a page at the given magnification (pixels per point).
	RenderPage(ctx context.Context, page int, magnification float64) (image.Image, error)
	// PageText returns the page's text runs in content-stream order at 1.0x.
	PageText(ctx context.Context, page int) ([]RawRun, error)
	Close() error
}

// Rasterizer turns a page into an encoded background image.
type Rasterizer interface {
	Rasterize(ctx context.Context, doc Document, page int) (*RasterImage, error)
}

// TextExtractor returns a page's validated text runs.
type TextExtractor interface {
	Extract(ctx context.Context, doc Document, page int) ([]TextRun, error)
}

// Packager serializes a finished presentation.
type Packager interface {
	Package(p *Presentation) ([]byte, error)
}
