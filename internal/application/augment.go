package app

import (
	"fmt"
	"image"
	"math/rand"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/infrastructure/vision"
)

// Sample — пример обучающей выборки: изображение, маска, рамки и клики.
type Sample struct {
	Image  image.Image
	Mask   entity.Mask
	Boxes  []entity.Box
	Clicks []entity.Click
}

func (s Sample) size() image.Point {
	b := s.Image.Bounds()
	return image.Pt(b.Dx(), b.Dy())
}

func (s Sample) validate() error {
	size := s.size()
	if s.Mask.Width != size.X || s.Mask.Height != size.Y {
		return fmt.Errorf("%w: image %v, mask %dx%d", entity.ErrShapeMismatch, size, s.Mask.Width, s.Mask.Height)
	}
	return nil
}

// ResizeSample масштабирует изображение билинейно, маску ближайшим соседом,
// рамки и клики пропорционально.
func ResizeSample(s Sample, size image.Point) (Sample, error) {
	if err := s.validate(); err != nil {
		return Sample{}, err
	}
	orig := s.size()

	clicks := make([]entity.Click, len(s.Clicks))
	for i, c := range s.Clicks {
		clicks[i] = entity.Click{
			Row:  min(c.Row*size.Y/orig.Y, size.Y-1),
			Col:  min(c.Col*size.X/orig.X, size.X-1),
			Kind: c.Kind,
		}
	}

	return Sample{
		Image:  vision.ResizeImage(s.Image, size, true),
		Mask:   vision.ResizeMask(s.Mask, size),
		Boxes:  entity.ResizeBoxes(s.Boxes, size, orig),
		Clicks: clicks,
	}, nil
}

// RandomCropSample вырезает одно и то же окно из изображения и маски.
// Клики вне окна отбрасываются, рамки сдвигаются и обрезаются.
func RandomCropSample(s Sample, size image.Point, rng *rand.Rand) (Sample, error) {
	if err := s.validate(); err != nil {
		return Sample{}, err
	}

	img, off, err := vision.RandomCrop(s.Image, size, rng, nil)
	if err != nil {
		return Sample{}, err
	}
	mask, err := vision.CropMask(s.Mask, size, off)
	if err != nil {
		return Sample{}, err
	}

	var clicks []entity.Click
	for _, c := range s.Clicks {
		row, col := c.Row-off.Y, c.Col-off.X
		if row < 0 || col < 0 || row >= size.Y || col >= size.X {
			continue
		}
		clicks = append(clicks, entity.Click{Row: row, Col: col, Kind: c.Kind})
	}

	boxes := make([]entity.Box, len(s.Boxes))
	for i, b := range s.Boxes {
		boxes[i] = b.Shift(-float64(off.Y), -float64(off.X), float64(size.Y), float64(size.X))
	}

	return Sample{Image: img, Mask: mask, Boxes: boxes, Clicks: clicks}, nil
}

// FlipSampleHorizontal зеркально отражает пример слева направо.
func FlipSampleHorizontal(s Sample) (Sample, error) {
	if err := s.validate(); err != nil {
		return Sample{}, err
	}
	size := s.size()

	clicks := make([]entity.Click, len(s.Clicks))
	for i, c := range s.Clicks {
		clicks[i] = entity.Click{Row: c.Row, Col: size.X - 1 - c.Col, Kind: c.Kind}
	}

	return Sample{
		Image:  vision.FlipImageHorizontal(s.Image),
		Mask:   vision.FlipMaskHorizontal(s.Mask),
		Boxes:  entity.FlipBoxesHorizontal(s.Boxes, float64(size.X)),
		Clicks: clicks,
	}, nil
}
