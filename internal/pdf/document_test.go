package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pdf/pdftest"
)

func load(t *testing.T, pages ...pdftest.Page) domain.Document {
	t.Helper()
	doc, err := NewLoader(nil).Load(context.Background(), pdftest.Build(pages...))
	require.NoError(t, err)
	t.Cleanup(func() { doc.Close() })
	return doc
}

func TestLoaderRejectsNonPDF(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), []byte("hello world"))
	assert.Equal(t, domain.KindLoad, domain.KindOf(err))

	_, err = NewLoader(nil).Load(context.Background(), []byte("%PDF-1.4\nthis is not a pdf body\n"))
	assert.Equal(t, domain.KindLoad, domain.KindOf(err))
}

func TestLoaderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(nil).Load(ctx, pdftest.Build(pdftest.Letter()))
	assert.Equal(t, domain.KindCancelled, domain.KindOf(err))
}

func TestDocumentPages(t *testing.T) {
	doc := load(t,
		pdftest.Letter(),
		pdftest.Page{Width: 200, Height: 100},
	)

	assert.Equal(t, 2, doc.PageCount())

	box, err := doc.PageBox(1)
	require.NoError(t, err)
	assert.Equal(t, domain.PageBox{Width: 612, Height: 792}, box)

	box, err = doc.PageBox(2)
	require.NoError(t, err)
	assert.Equal(t, domain.PageBox{Width: 200, Height: 100}, box)

	_, err = doc.PageBox(3)
	assert.Error(t, err)
}

func TestDocumentPageText(t *testing.T) {
	doc := load(t, pdftest.Letter(
		pdftest.Text{X: 72, Y: 700, Size: 12, S: "Hello"},
		pdftest.Text{X: 72, Y: 680, Size: 10, S: "(world)"},
	))

	runs, err := doc.PageText(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "Hello", runs[0].Text)
	assert.Equal(t, domain.Transform{A: 12, D: 12, E: 72, F: 700}, runs[0].Transform)
	// no /Widths: every glyph advances half an em
	assert.InDelta(t, 30.0, runs[0].Advance, 1e-9)

	assert.Equal(t, "(world)", runs[1].Text)
	assert.Equal(t, domain.Transform{A: 10, D: 10, E: 72, F: 680}, runs[1].Transform)
}

func TestDocumentPageTextOperators(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []domain.RawRun
	}{
		{
			name:    "text matrix carries the size",
			content: "BT /F1 1 Tf 12 0 0 12 72 700 Tm (Hi) Tj ET",
			want: []domain.RawRun{
				{Text: "Hi", Transform: domain.Transform{A: 12, D: 12, E: 72, F: 700}, Advance: 12},
			},
		},
		{
			name:    "rotated by cm",
			content: "q 0 1 -1 0 300 100 cm BT /F1 12 Tf (Up) Tj ET Q",
			want: []domain.RawRun{
				{Text: "Up", Transform: domain.Transform{A: 0, B: 12, C: -12, D: 0, E: 300, F: 100}, Advance: 12},
			},
		},
		{
			name:    "TJ kerning inserts word gaps",
			content: "BT /F1 10 Tf 100 500 Td [(Hello) -250 (World) -50 (!)] TJ ET",
			want: []domain.RawRun{
				{Text: "Hello World!", Transform: domain.Transform{A: 10, D: 10, E: 100, F: 500}, Advance: 58},
			},
		},
		{
			name:    "quote moves to the next line",
			content: "BT /F1 10 Tf 14 TL 72 700 Td (a) Tj (b) ' ET",
			want: []domain.RawRun{
				{Text: "a", Transform: domain.Transform{A: 10, D: 10, E: 72, F: 700}, Advance: 5},
				{Text: "b", Transform: domain.Transform{A: 10, D: 10, E: 72, F: 686}, Advance: 5},
			},
		},
		{
			name:    "horizontal scaling widens the first column",
			content: "BT /F1 10 Tf 50 Tz 0 0 Td (ab) Tj ET",
			want: []domain.RawRun{
				{Text: "ab", Transform: domain.Transform{A: 5, D: 10}, Advance: 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := load(t, pdftest.Page{Width: 612, Height: 792, Content: tt.content})

			runs, err := doc.PageText(context.Background(), 1)
			require.NoError(t, err)
			require.Len(t, runs, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.Text, runs[i].Text)
				assert.InDeltaSlice(t, want.Transform.Components(), runs[i].Transform.Components(), 1e-9)
				assert.InDelta(t, want.Advance, runs[i].Advance, 1e-9)
			}
		})
	}
}

func TestDocumentPageTextRejectsNonNumericOperands(t *testing.T) {
	for _, content := range []string{
		"BT /F1 12 Tf 12 0 0 /Bogus 72 700 Tm (Hi) Tj ET",
		"q 1 0 0 (x) 0 0 cm BT /F1 12 Tf (Hi) Tj ET Q",
		"BT /F1 12 Tf /Left 700 Td (Hi) Tj ET",
		"BT /F1 /Big Tf (Hi) Tj ET",
		"BT /F1 12 Tf /Wide Tz (Hi) Tj ET",
		"BT /F1 12 Tf 14 TL (a) (b) (c) \" ET",
	} {
		t.Run(content, func(t *testing.T) {
			doc := load(t, pdftest.Page{Width: 612, Height: 792, Content: content})

			runs, err := doc.PageText(context.Background(), 1)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "is not a number")
			assert.Nil(t, runs)
		})
	}
}

func TestDocumentPageTextEmptyPage(t *testing.T) {
	doc := load(t, pdftest.Letter())

	runs, err := doc.PageText(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestDocumentRenderPage(t *testing.T) {
	doc := load(t, pdftest.Page{Width: 200, Height: 100, Texts: []pdftest.Text{{X: 10, Y: 40, Size: 24, S: "Raster"}}})

	img, err := doc.RenderPage(context.Background(), 1, 2.0)
	require.NoError(t, err)
	assert.InDelta(t, 400, img.Bounds().Dx(), 1)
	assert.InDelta(t, 200, img.Bounds().Dy(), 1)

	_, err = doc.RenderPage(context.Background(), 2, 2.0)
	assert.Error(t, err)
}
