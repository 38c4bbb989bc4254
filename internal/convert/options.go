package convert

import (
	"github.com/Tech2AI-collab/tech2ai-hub/internal/config"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/layout"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/render"
)

// Slide layouts.
const (
	Layout16x9 = "16x9"
	LayoutPage = "page"
)

// Options controls one conversion.
type Options struct {
	Mode          domain.Mode
	Magnification float64
	JPEGQuality   int
	LineHeight    float64
	WidthPolicy   domain.WidthPolicy
	FontFace      string
	TextColor     string
	// SlideLayout is Layout16x9 or LayoutPage (slide sized to the first page).
	SlideLayout string
}

// DefaultOptions returns image mode at 2x, JPEG quality 80, on 16:9 slides.
func DefaultOptions() Options {
	return Options{
		Mode:          domain.ModeImage,
		Magnification: render.DefaultMagnification,
		JPEGQuality:   render.DefaultQuality,
		LineHeight:    layout.DefaultLineHeight,
		WidthPolicy:   domain.WidthFillSlide,
		FontFace:      "Arial",
		TextColor:     "000000",
		SlideLayout:   Layout16x9,
	}
}

// OptionsFromConfig builds Options from the conversion config section.
func OptionsFromConfig(cfg config.ConversionConfig) (Options, error) {
	mode, err := domain.ParseMode(cfg.Mode)
	if err != nil {
		return Options{}, err
	}
	policy, err := domain.ParseWidthPolicy(cfg.WidthPolicy)
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Mode:          mode,
		Magnification: cfg.Magnification,
		JPEGQuality:   cfg.JPEGQuality,
		LineHeight:    cfg.LineHeight,
		WidthPolicy:   policy,
		FontFace:      cfg.FontFace,
		TextColor:     cfg.TextColor,
		SlideLayout:   cfg.SlideLayout,
	}
	return opts.withDefaults(), nil
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Mode == "" {
		o.Mode = d.Mode
	}
	if o.Magnification <= 0 {
		o.Magnification = d.Magnification
	}
	if o.JPEGQuality < 1 || o.JPEGQuality > 100 {
		o.JPEGQuality = d.JPEGQuality
	}
	if o.LineHeight <= 0 {
		o.LineHeight = d.LineHeight
	}
	if o.WidthPolicy == "" {
		o.WidthPolicy = d.WidthPolicy
	}
	if o.FontFace == "" {
		o.FontFace = d.FontFace
	}
	if o.TextColor == "" {
		o.TextColor = d.TextColor
	}
	if o.SlideLayout == "" {
		o.SlideLayout = d.SlideLayout
	}
	return o
}
