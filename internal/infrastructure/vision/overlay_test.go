package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"

	"iseg-kit/internal/domain/entity"
)

func grayImage(w, h int, v uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}

func TestClickPoints(t *testing.T) {
	m := entity.NewFloatMap(3, 2)
	for i := range m.Pix {
		m.Pix[i] = 4
	}
	m.Set(1, 2, 0)
	require.Equal(t, []image.Point{{X: 2, Y: 1}}, ClickPoints(m, false))

	g := entity.NewFloatMap(3, 2)
	g.Set(0, 1, 0.9)
	require.Equal(t, []image.Point{{X: 1, Y: 0}}, ClickPoints(g, true))

	// гауссова карта без различий ищет нули
	flat := entity.NewFloatMap(2, 1)
	require.Len(t, ClickPoints(flat, true), 2)
}

func TestDrawClicks_DiscAndMargin(t *testing.T) {
	img := grayImage(20, 20, 100)
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	img.SetRGBA(19, 19, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	DrawClicks(img, []image.Point{{X: 10, Y: 10}, {X: 2, Y: 10}}, ClickRed)

	red := color.RGBA{R: 200, G: 10, B: 10, A: 255}
	require.Equal(t, red, img.RGBAAt(10, 10))
	require.Equal(t, red, img.RGBAAt(14, 10))
	require.Equal(t, red, img.RGBAAt(13, 13))
	// расстояние 5 уже вне диска
	require.Equal(t, uint8(100), img.RGBAAt(15, 10).R)
	require.Equal(t, uint8(100), img.RGBAAt(14, 14).R)
	// точка у края пропущена
	require.Equal(t, uint8(100), img.RGBAAt(2, 10).R)
}

func TestVisualiseClicks_Blue(t *testing.T) {
	img := grayImage(12, 12, 50)
	cm := entity.NewFloatMap(12, 12)
	for i := range cm.Pix {
		cm.Pix[i] = 10
	}
	cm.Set(6, 6, 0)

	out, err := VisualiseClicks([]image.Image{img}, []entity.FloatMap{cm}, ClickBlue, false)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, color.RGBA{R: 50, G: 50, B: 50, A: 255}, out[0].RGBAAt(6, 6))

	// источник не меняется
	require.Equal(t, uint8(50), img.RGBAAt(6, 6).B)

	_, err = VisualiseClicks([]image.Image{img}, nil, ClickBlue, false)
	require.ErrorIs(t, err, entity.ErrShapeMismatch)
}

func TestMaskedImage_TintsSelectedPixels(t *testing.T) {
	img := grayImage(2, 1, 200)
	mask := entity.NewFloatMap(2, 1)
	mask.Set(0, 0, 1)

	out, err := MaskedImage(img, mask, DefaultMultiplier, GuidanceNone)
	require.NoError(t, err)

	c, _ := colorful.MakeColor(out.RGBAAt(0, 0))
	h, s, v := c.Hsv()
	require.InDelta(t, 120, h, 1)
	require.InDelta(t, 0.6, s, 0.01)
	require.InDelta(t, 200.0/255.0, v, 0.01)
	require.Equal(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}, out.RGBAAt(1, 0))

	out, err = MaskedImage(img, mask, DefaultMultiplier, GuidanceUnsignedDT)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 200, G: 200, B: 200, A: 255}, out.RGBAAt(0, 0))
	require.NotEqual(t, uint8(200), out.RGBAAt(1, 0).R)
}

func TestMaskedImage_Alpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(1, 0, color.RGBA{R: 100, G: 100, B: 100, A: 128})
	mask := entity.NewFloatMap(2, 1)
	mask.Set(0, 0, 1)
	mask.Set(0, 1, 1)

	out, err := MaskedImage(img, mask, DefaultMultiplier, GuidanceNone)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{}, out.RGBAAt(0, 0))

	px := out.RGBAAt(1, 0)
	require.Equal(t, uint8(128), px.A)
	require.LessOrEqual(t, px.G, px.A)
	require.Greater(t, px.G, px.R)
	require.InDelta(t, 99, int(px.G), 2)
}

func TestCaption_Draws(t *testing.T) {
	img := grayImage(60, 20, 0)
	Caption(img, "pos 1", 2, 14, color.White)
	drawn := false
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			drawn = true
			break
		}
	}
	require.True(t, drawn)
}
