package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
)

type stubDoc struct {
	box       domain.PageBox
	img       image.Image
	renderErr error
	gotMag    float64
}

func (d *stubDoc) PageCount() int { return 1 }

func (d *stubDoc) PageBox(page int) (domain.PageBox, error) { return d.box, nil }

func (d *stubDoc) RenderPage(ctx context.Context, page int, magnification float64) (image.Image, error) {
	d.gotMag = magnification
	return d.img, d.renderErr
}

func (d *stubDoc) PageText(ctx context.Context, page int) ([]domain.RawRun, error) { return nil, nil }

func (d *stubDoc) Close() error { return nil }

func solid(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	return img
}

func TestTargetSize(t *testing.T) {
	w, h := TargetSize(domain.PageBox{Width: 612, Height: 792}, 2)
	assert.Equal(t, 1224, w)
	assert.Equal(t, 1584, h)

	w, h = TargetSize(domain.PageBox{Width: 595.3, Height: 841.9}, 2)
	assert.Equal(t, 1191, w)
	assert.Equal(t, 1684, h)
}

func TestRasterize(t *testing.T) {
	doc := &stubDoc{box: domain.PageBox{Width: 100, Height: 50}, img: solid(200, 100)}

	raster, err := NewRasterizer(0, 0, nil).Rasterize(context.Background(), doc, 1)
	require.NoError(t, err)

	assert.Equal(t, 2.0, doc.gotMag)
	assert.Equal(t, 200, raster.Width)
	assert.Equal(t, 100, raster.Height)
	assert.Equal(t, 2.0, raster.Magnification)
	assert.Equal(t, "image/jpeg", raster.ContentType)
	require.NotEmpty(t, raster.Data)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raster.Data))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestRasterizeResamplesToCeilSize(t *testing.T) {
	// 100.3pt at 2x needs 201px; the backend rounded down.
	doc := &stubDoc{box: domain.PageBox{Width: 100.3, Height: 50}, img: solid(200, 100)}

	raster, err := NewRasterizer(2, 80, nil).Rasterize(context.Background(), doc, 1)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(raster.Data))
	require.NoError(t, err)
	assert.Equal(t, 201, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestRasterizeFailures(t *testing.T) {
	r := NewRasterizer(2, 80, nil)

	_, err := r.Rasterize(context.Background(), &stubDoc{box: domain.PageBox{Width: 10, Height: 10}, renderErr: errors.New("corrupt content stream")}, 1)
	assert.Equal(t, domain.KindRender, domain.KindOf(err))
	assert.Contains(t, err.Error(), "corrupt content stream")

	_, err = r.Rasterize(context.Background(), &stubDoc{box: domain.PageBox{}}, 1)
	assert.Equal(t, domain.KindRender, domain.KindOf(err))
}
