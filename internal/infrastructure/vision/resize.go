package vision

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"iseg-kit/internal/domain/entity"
)

// ResizeImage масштабирует изображение до size (X — ширина, Y — высота).
// bilinear=false использует ближайшего соседа.
func ResizeImage(img image.Image, size image.Point, bilinear bool) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	var s xdraw.Interpolator = xdraw.NearestNeighbor
	if bilinear {
		s = xdraw.BiLinear
	}
	s.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// ResizeMask масштабирует маску ближайшим соседом без сдвига на полпикселя,
// чтобы значения меток не смешивались.
func ResizeMask(m entity.Mask, size image.Point) entity.Mask {
	out := entity.NewMask(size.X, size.Y)
	if m.Empty() {
		return out
	}
	for y := 0; y < size.Y; y++ {
		sy := min(y*m.Height/size.Y, m.Height-1)
		for x := 0; x < size.X; x++ {
			sx := min(x*m.Width/size.X, m.Width-1)
			out.Pix[y*size.X+x] = m.At(sy, sx)
		}
	}
	return out
}

// FlipImageHorizontal отражает изображение слева направо
func FlipImageHorizontal(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			dst.Set(b.Dx()-1-x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// FlipMaskHorizontal отражает маску слева направо
func FlipMaskHorizontal(m entity.Mask) entity.Mask {
	out := entity.NewMask(m.Width, m.Height)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			out.Set(y, m.Width-1-x, m.At(y, x))
		}
	}
	return out
}
