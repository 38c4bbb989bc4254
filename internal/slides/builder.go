// Package slides accumulates one slide per page into a presentation.
package slides

import (
	"errors"
	"fmt"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

// ErrFinalized is returned for any mutation after Finalize.
var ErrFinalized = errors.New("slide set already finalized")

// Builder is the single writer of a presentation. Pages must arrive in
// ascending order starting at 1; Finalize hands the slide set over and
// leaves the builder unusable.
type Builder struct {
	size      domain.SlideSize
	slides    []domain.Slide
	finalized bool
}

// NewBuilder creates a builder for slides of the given size. capacity is a hint.
func NewBuilder(size domain.SlideSize, capacity int) *Builder {
	if capacity < 0 {
		capacity = 0
	}
	return &Builder{
		size:   size,
		slides: make([]domain.Slide, 0, capacity),
	}
}

// Len returns the number of committed slides.
func (b *Builder) Len() int {
	return len(b.slides)
}

func (b *Builder) checkNext(page int) error {
	if b.finalized {
		return domain.ValidationError(fmt.Sprintf("cannot add page %d", page), ErrFinalized)
	}
	if want := len(b.slides) + 1; page != want {
		return domain.ValidationError(fmt.Sprintf("page %d added out of order, expected page %d", page, want), nil)
	}
	return nil
}

// AddBackground commits an image-backed slide for page.
func (b *Builder) AddBackground(page int, img *domain.RasterImage) error {
	if err := b.checkNext(page); err != nil {
		return err
	}
	if img == nil || len(img.Data) == 0 {
		return domain.ValidationError(fmt.Sprintf("page %d has an empty background image", page), nil)
	}
	b.slides = append(b.slides, domain.Slide{Index: page, Background: img})
	return nil
}

// AddTextBoxes commits a text slide for page. A page without text yields an empty slide.
func (b *Builder) AddTextBoxes(page int, boxes []domain.PlacedTextBox) error {
	if err := b.checkNext(page); err != nil {
		return err
	}
	owned := make([]domain.PlacedTextBox, len(boxes))
	copy(owned, boxes)
	b.slides = append(b.slides, domain.Slide{Index: page, TextBoxes: owned})
	return nil
}

// Finalize transfers the slide set to the caller.
func (b *Builder) Finalize(fileName string) (*domain.Presentation, error) {
	if b.finalized {
		return nil, domain.ValidationError("cannot finalize", ErrFinalized)
	}
	b.finalized = true

	p := &domain.Presentation{
		Slides:   b.slides,
		Size:     b.size,
		FileName: fileName,
	}
	b.slides = nil
	return p, nil
}

// Discard drops everything accumulated so far.
func (b *Builder) Discard() {
	b.slides = nil
	b.finalized = true
}
