package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		name           string
		tx, ty, h, H   float64
		wantX, wantY   float64
		wantH, wantPts float64
	}{
		{"letter body text", 72, 700, 12, 792, 1.0, (792.0 - 700 - 12) / 72, 0.25, 12},
		{"top-left corner", 0, 792, 0, 792, 0, 0, 0, 0},
		{"bottom edge", 36, 0, 18, 792, 0.5, 774.0 / 72, 0.375, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Place(tt.tx, tt.ty, tt.h, tt.H, DefaultLineHeight)
			assert.InDelta(t, tt.wantX, p.X, 1e-9)
			assert.InDelta(t, tt.wantY, p.Y, 1e-9)
			assert.InDelta(t, tt.wantH, p.Height, 1e-9)
			assert.Equal(t, tt.wantPts, p.FontSize)
		})
	}
}

func TestPlaceIsDeterministic(t *testing.T) {
	assert.Equal(t, Place(10, 20, 30, 400, 1.5), Place(10, 20, 30, 400, 1.5))
}

func TestMapFillSlideWidth(t *testing.T) {
	m := NewMapper(Options{})
	run := domain.TextRun{
		Text:       "Agenda",
		Transform:  domain.Transform{A: 12, D: 12, E: 72, F: 700},
		FontHeight: 12,
		Advance:    40,
	}

	box := m.Map(run, domain.PageBox{Width: 612, Height: 792})

	assert.Equal(t, "Agenda", box.Text)
	assert.InDelta(t, 1.0, box.X, 1e-9)
	assert.InDelta(t, 1.111, box.Y, 1e-3)
	assert.InDelta(t, 0.25, box.Height, 1e-9)
	assert.Equal(t, 12.0, box.FontSize)
	assert.Equal(t, 10.0, box.Width)
	assert.Equal(t, domain.WidthFillSlide, box.WidthPolicy)
	assert.Equal(t, "Arial", box.FontFace)
	assert.Equal(t, "000000", box.Color)
}

func TestMapMeasuredWidth(t *testing.T) {
	m := NewMapper(Options{WidthPolicy: domain.WidthMeasured, FontFace: "Calibri", Color: "333333"})
	run := domain.TextRun{Text: "x", Transform: domain.Transform{A: 10, D: 10}, FontHeight: 10, Advance: 144}

	box := m.Map(run, domain.PageBox{Width: 612, Height: 792})

	assert.Equal(t, 2.0, box.Width)
	assert.Equal(t, domain.WidthMeasured, box.WidthPolicy)
	assert.Equal(t, "Calibri", box.FontFace)
	assert.Equal(t, "333333", box.Color)
}

func TestMapAllKeepsOrder(t *testing.T) {
	m := NewMapper(Options{SlideWidth: 8.5})
	runs := []domain.TextRun{
		{Text: "first", Transform: domain.Transform{E: 10, F: 10}, FontHeight: 10},
		{Text: "second", Transform: domain.Transform{E: 20, F: 20}, FontHeight: 10},
	}

	boxes := m.MapAll(runs, domain.PageBox{Height: 100})
	assert.Len(t, boxes, 2)
	assert.Equal(t, "first", boxes[0].Text)
	assert.Equal(t, "second", boxes[1].Text)
	assert.Equal(t, 8.5, boxes[1].Width)
}
