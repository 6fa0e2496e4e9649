package vision

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math/rand"

	"iseg-kit/internal/domain/entity"
)

var ErrCropTooLarge = errors.New("crop does not fit into image")

// RandomCrop вырезает окно size. Если offset == nil, смещение выбирается
// равномерно в [0, limit), где limit = shape - size + 1.
// Возвращает вырезанное изображение и использованное смещение.
func RandomCrop(img image.Image, size image.Point, rng *rand.Rand, offset *image.Point) (*image.RGBA, image.Point, error) {
	b := img.Bounds()
	off, err := cropOffset(image.Pt(b.Dx(), b.Dy()), size, rng, offset)
	if err != nil {
		return nil, image.Point{}, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.Draw(dst, dst.Bounds(), img, b.Min.Add(off), draw.Src)
	return dst, off, nil
}

// CropMask вырезает из маски окно size со смещением offset.
func CropMask(m entity.Mask, size, offset image.Point) (entity.Mask, error) {
	if _, err := cropOffset(image.Pt(m.Width, m.Height), size, nil, &offset); err != nil {
		return entity.Mask{}, err
	}
	out := entity.NewMask(size.X, size.Y)
	for y := 0; y < size.Y; y++ {
		copy(out.Pix[y*size.X:(y+1)*size.X], m.Pix[(y+offset.Y)*m.Width+offset.X:])
	}
	return out, nil
}

func cropOffset(shape, size image.Point, rng *rand.Rand, offset *image.Point) (image.Point, error) {
	limit := shape.Sub(size).Add(image.Pt(1, 1))
	if size.X <= 0 || size.Y <= 0 || limit.X <= 0 || limit.Y <= 0 {
		return image.Point{}, fmt.Errorf("%w: crop %v, image %v", ErrCropTooLarge, size, shape)
	}
	if offset != nil {
		if offset.X < 0 || offset.Y < 0 || offset.X >= limit.X || offset.Y >= limit.Y {
			return image.Point{}, fmt.Errorf("%w: offset %v, limit %v", ErrCropTooLarge, *offset, limit)
		}
		return *offset, nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return image.Pt(rng.Intn(limit.X), rng.Intn(limit.Y)), nil
}
