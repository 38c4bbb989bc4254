package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

// Document is an open PDF. The raster and text backends are opened on first use.
type Document struct {
	data []byte
	pctx *model.Context

	mu    sync.Mutex
	boxes map[int]domain.PageBox
	fz    *fitz.Document
	text  *lpdf.Reader
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.pctx.PageCount
}

func (d *Document) checkPage(page int) error {
	if page < 1 || page > d.PageCount() {
		return fmt.Errorf("page %d out of range [1, %d]", page, d.PageCount())
	}
	return nil
}

// PageBox returns the visible page size in points, honouring /Rotate.
func (d *Document) PageBox(page int) (domain.PageBox, error) {
	if err := d.checkPage(page); err != nil {
		return domain.PageBox{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if box, ok := d.boxes[page]; ok {
		return box, nil
	}

	_, _, attrs, err := d.pctx.PageDict(page, false)
	if err != nil {
		return domain.PageBox{}, fmt.Errorf("read page %d dictionary: %w", page, err)
	}

	// US Letter when no box is inherited.
	box := domain.PageBox{Width: 612, Height: 792}
	if attrs != nil {
		rect := attrs.CropBox
		if rect == nil {
			rect = attrs.MediaBox
		}
		if rect != nil {
			box = domain.PageBox{Width: rect.Width(), Height: rect.Height()}
		}
		if rot := ((attrs.Rotate % 360) + 360) % 360; rot == 90 || rot == 270 {
			box.Width, box.Height = box.Height, box.Width
		}
	}

	d.boxes[page] = box
	return box, nil
}

// RenderPage rasterizes page at magnification pixels per point through MuPDF.
func (d *Document) RenderPage(ctx context.Context, page int, magnification float64) (image.Image, error) {
	if err := d.checkPage(page); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.fz == nil {
		fz, err := fitz.NewFromMemory(d.data)
		if err != nil {
			d.mu.Unlock()
			return nil, fmt.Errorf("open raster backend: %w", err)
		}
		d.fz = fz
	}
	fz := d.fz
	d.mu.Unlock()

	img, err := fz.ImageDPI(page-1, 72*magnification)
	if err != nil {
		return nil, fmt.Errorf("rasterize page %d: %w", page, err)
	}
	return img, nil
}

// PageText returns the page's text runs in content-stream order.
func (d *Document) PageText(ctx context.Context, page int) ([]domain.RawRun, error) {
	if err := d.checkPage(page); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	if d.text == nil {
		r, err := lpdf.NewReader(bytes.NewReader(d.data), int64(len(d.data)))
		if err != nil {
			d.mu.Unlock()
			return nil, fmt.Errorf("open text backend: %w", err)
		}
		d.text = r
	}
	r := d.text
	d.mu.Unlock()

	return pageRuns(r.Page(page))
}

// Close releases the raster backend.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fz != nil {
		err := d.fz.Close()
		d.fz = nil
		return err
	}
	return nil
}
