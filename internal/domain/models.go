package domain

import (
	"fmt"
	"math"
	"strings"
)

// PointsPerInch converts PDF user space units to inches.
const PointsPerInch = 72.0

// Mode selects how a page becomes a slide.
type Mode string

const (
	// ModeImage renders each page to a full-bleed background image.
	ModeImage Mode = "image"
	// ModeEditable rebuilds each page from positioned text boxes.
	ModeEditable Mode = "editable"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeImage:
		return ModeImage, nil
	case ModeEditable:
		return ModeEditable, nil
	default:
		return "", ConfigError(fmt.Sprintf("unknown conversion mode %q", s), nil)
	}
}

// WidthPolicy decides how wide a placed text box is.
type WidthPolicy string

const (
	WidthFillSlide WidthPolicy = "fill-to-slide-width"
	WidthMeasured  WidthPolicy = "measured"
)

// ParseWidthPolicy parses a width policy name.
func ParseWidthPolicy(s string) (WidthPolicy, error) {
	switch WidthPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case WidthFillSlide, "":
		return WidthFillSlide, nil
	case WidthMeasured:
		return WidthMeasured, nil
	default:
		return "", ConfigError(fmt.Sprintf("unknown width policy %q", s), nil)
	}
}

// PageBox is a page's size in points.
type PageBox struct {
	Width  float64
	Height float64
}

// Transform is a glyph transform [a b c d e f] mapping glyph space to page space.
// (E, F) is the glyph origin in points.
type Transform struct {
	A, B, C, D, E, F float64
}

// Components returns the transform as a 6-element slice.
func (t Transform) Components() []float64 {
	return []float64{t.A, t.B, t.C, t.D, t.E, t.F}
}

// IsFinite reports whether every component is a finite number.
func (t Transform) IsFinite() bool {
	for _, v := range t.Components() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FontHeight is the length of the first column vector, sqrt(a² + b²).
// Using D alone is wrong for rotated or skewed text.
func (t Transform) FontHeight() float64 {
	return math.Hypot(t.A, t.B)
}

// RawRun is a text run as read from a page content stream.
type RawRun struct {
	Text      string
	Transform Transform
	// Advance is the run's horizontal extent in points, zero when unknown.
	Advance float64
}

// TextRun is a validated run ready for layout.
type TextRun struct {
	Text       string
	Transform  Transform
	FontHeight float64
	Advance    float64
}

// RasterImage is an encoded page bitmap.
type RasterImage struct {
	Data          []byte
	Width         int
	Height        int
	Magnification float64
	ContentType   string
}

// PlacedTextBox is a text box positioned in slide inches, origin top-left.
type PlacedTextBox struct {
	Text        string
	X           float64
	Y           float64
	Width       float64
	Height      float64
	WidthPolicy WidthPolicy
	FontSize    float64
	Color       string
	FontFace    string
}

// SlideSize is the slide size in inches.
type SlideSize struct {
	Width  float64
	Height float64
}

// Slide16x9 is the default widescreen layout.
var Slide16x9 = SlideSize{Width: 10, Height: 5.625}

// Slide holds exactly one of a background image or a list of text boxes.
type Slide struct {
	Index      int
	Background *RasterImage
	TextBoxes  []PlacedTextBox
}

// HasBackground reports whether the slide is image-backed.
func (s Slide) HasBackground() bool {
	return s.Background != nil
}

// Presentation is the ordered slide set plus its output filename.
type Presentation struct {
	Slides   []Slide
	Size     SlideSize
	FileName string
}

// Artifact is the packaged presentation handed back to the caller.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	SlideCount  int
}

// State is the pipeline state.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateRendering State = "rendering"
	StatePackaging State = "packaging"
	StateComplete  State = "complete"
	StateFailed    State = "failed"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateFailed
}
