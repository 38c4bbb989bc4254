package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformFontHeight(t *testing.T) {
	s45 := 12 * math.Sqrt2 / 2

	tests := []struct {
		name string
		tr   Transform
		want float64
	}{
		{"upright", Transform{A: 12, D: 12, E: 72, F: 700}, 12},
		{"rotated 90", Transform{A: 0, B: 12, C: -12, D: 0}, 12},
		{"rotated 45", Transform{A: s45, B: s45, C: -s45, D: s45}, 12},
		{"skewed", Transform{A: 12, B: 0, C: 4, D: 9}, 12},
		{"horizontally scaled", Transform{A: 3, B: 4, D: 100}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.tr.FontHeight(), 1e-9)
		})
	}
}

func TestTransformIsFinite(t *testing.T) {
	assert.True(t, Transform{A: 1, D: 1}.IsFinite())
	assert.False(t, Transform{A: math.NaN(), D: 1}.IsFinite())
	assert.False(t, Transform{A: 1, D: 1, F: math.Inf(-1)}.IsFinite())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Editable ")
	require.NoError(t, err)
	assert.Equal(t, ModeEditable, m)

	m, err = ParseMode("image")
	require.NoError(t, err)
	assert.Equal(t, ModeImage, m)

	_, err = ParseMode("vector")
	assert.True(t, IsKind(err, KindConfig))
}

func TestParseWidthPolicy(t *testing.T) {
	p, err := ParseWidthPolicy("")
	require.NoError(t, err)
	assert.Equal(t, WidthFillSlide, p)

	p, err = ParseWidthPolicy("measured")
	require.NoError(t, err)
	assert.Equal(t, WidthMeasured, p)

	_, err = ParseWidthPolicy("auto")
	assert.Error(t, err)
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateIdle, StateLoading, StateRendering, StatePackaging} {
		assert.False(t, s.Terminal(), s)
	}
	assert.True(t, StateComplete.Terminal())
	assert.True(t, StateFailed.Terminal())
}
