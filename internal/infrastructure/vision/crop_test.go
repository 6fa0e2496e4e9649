package vision

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomCrop_ExplicitOffset(t *testing.T) {
	img := grayImage(5, 4, 0)
	img.SetRGBA(3, 2, color.RGBA{R: 9, A: 255})

	out, off, err := RandomCrop(img, image.Pt(2, 2), nil, &image.Point{X: 2, Y: 1})
	require.NoError(t, err)
	require.Equal(t, image.Pt(2, 1), off)
	require.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	require.Equal(t, uint8(9), out.RGBAAt(1, 1).R)
}

func TestRandomCrop_RandomOffsetWithinLimit(t *testing.T) {
	img := grayImage(6, 6, 0)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		_, off, err := RandomCrop(img, image.Pt(4, 5), rng, nil)
		require.NoError(t, err)
		require.True(t, off.X >= 0 && off.X <= 2)
		require.True(t, off.Y >= 0 && off.Y <= 1)
	}

	_, off, err := RandomCrop(img, image.Pt(6, 6), rng, nil)
	require.NoError(t, err)
	require.Equal(t, image.Point{}, off)
}

func TestRandomCrop_TooLarge(t *testing.T) {
	img := grayImage(3, 3, 0)
	_, _, err := RandomCrop(img, image.Pt(4, 2), nil, nil)
	require.ErrorIs(t, err, ErrCropTooLarge)

	_, _, err = RandomCrop(img, image.Pt(2, 2), nil, &image.Point{X: 2})
	require.ErrorIs(t, err, ErrCropTooLarge)
}

func TestCropMask(t *testing.T) {
	m := maskFromRows(
		"0000",
		"0110",
		"0010",
	)
	out, err := CropMask(m, image.Pt(2, 2), image.Pt(1, 1))
	require.NoError(t, err)
	require.Equal(t, []uint8{1, 1, 0, 1}, out.Pix)
}

func TestResizeMask_Nearest(t *testing.T) {
	m := maskFromRows("10", "01")
	out := ResizeMask(m, image.Pt(4, 4))
	require.Equal(t, []uint8{
		1, 1, 0, 0,
		1, 1, 0, 0,
		0, 0, 1, 1,
		0, 0, 1, 1,
	}, out.Pix)

	down := ResizeMask(out, image.Pt(2, 2))
	require.True(t, m.Equal(down))
}

func TestResizeImage_Size(t *testing.T) {
	img := grayImage(10, 8, 77)
	for _, bilinear := range []bool{true, false} {
		out := ResizeImage(img, image.Pt(5, 3), bilinear)
		require.Equal(t, image.Rect(0, 0, 5, 3), out.Bounds())
		require.Equal(t, uint8(77), out.RGBAAt(2, 1).G)
	}
}

func TestFlipMaskHorizontal(t *testing.T) {
	m := maskFromRows("100", "011")
	require.Equal(t, maskFromRows("001", "110").Pix, FlipMaskHorizontal(m).Pix)

	img := grayImage(3, 1, 0)
	img.SetRGBA(0, 0, color.RGBA{R: 5, A: 255})
	require.Equal(t, uint8(5), FlipImageHorizontal(img).RGBAAt(2, 0).R)
}
