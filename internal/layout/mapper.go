// Package layout maps PDF point-space text runs onto slide inch-space.
package layout

import (
	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

// DefaultLineHeight is the box height multiplier over the font height.
const DefaultLineHeight = 1.5

// Placement is a run's position in slide inches, origin top-left.
type Placement struct {
	X        float64
	Y        float64
	Height   float64
	FontSize float64
}

// Place converts a glyph origin (tx, ty) and font height h, all in points,
// on a page of height pageHeight points. The y axis is flipped because PDF
// space grows upward from the bottom-left corner.
func Place(tx, ty, h, pageHeight, lineHeight float64) Placement {
	return Placement{
		X:        tx / domain.PointsPerInch,
		Y:        (pageHeight - ty - h) / domain.PointsPerInch,
		Height:   h / domain.PointsPerInch * lineHeight,
		FontSize: h,
	}
}

// Options configures a Mapper.
type Options struct {
	LineHeight  float64
	WidthPolicy domain.WidthPolicy
	// SlideWidth in inches, used by WidthFillSlide.
	SlideWidth float64
	FontFace   string
	Color      string
}

// Mapper places text runs as slide text boxes. It holds no per-page state.
type Mapper struct {
	opts Options
}

// NewMapper creates a mapper, filling unset options with the defaults.
func NewMapper(opts Options) *Mapper {
	if opts.LineHeight <= 0 {
		opts.LineHeight = DefaultLineHeight
	}
	if opts.WidthPolicy == "" {
		opts.WidthPolicy = domain.WidthFillSlide
	}
	if opts.SlideWidth <= 0 {
		opts.SlideWidth = domain.Slide16x9.Width
	}
	if opts.FontFace == "" {
		opts.FontFace = "Arial"
	}
	if opts.Color == "" {
		opts.Color = "000000"
	}
	return &Mapper{opts: opts}
}

// Map places one run on a page of the given size.
func (m *Mapper) Map(run domain.TextRun, page domain.PageBox) domain.PlacedTextBox {
	p := Place(run.Transform.E, run.Transform.F, run.FontHeight, page.Height, m.opts.LineHeight)

	width := m.opts.SlideWidth
	if m.opts.WidthPolicy == domain.WidthMeasured {
		width = run.Advance / domain.PointsPerInch
	}

	return domain.PlacedTextBox{
		Text:        run.Text,
		X:           p.X,
		Y:           p.Y,
		Width:       width,
		Height:      p.Height,
		WidthPolicy: m.opts.WidthPolicy,
		FontSize:    p.FontSize,
		Color:       m.opts.Color,
		FontFace:    m.opts.FontFace,
	}
}

// MapAll places runs in order.
func (m *Mapper) MapAll(runs []domain.TextRun, page domain.PageBox) []domain.PlacedTextBox {
	boxes := make([]domain.PlacedTextBox, 0, len(runs))
	for _, r := range runs {
		boxes = append(boxes, m.Map(r, page))
	}
	return boxes
}
