package entity

import "image"

// Box ограничивающая рамка в порядке (y0, x0, y1, x1)
type Box struct {
	YMin float64 `yaml:"y_min" json:"y_min"`
	XMin float64 `yaml:"x_min" json:"x_min"`
	YMax float64 `yaml:"y_max" json:"y_max"`
	XMax float64 `yaml:"x_max" json:"x_max"`
}

// ResizeBoxes масштабирует рамки из размера orig в размер out.
func ResizeBoxes(boxes []Box, out, orig image.Point) []Box {
	yRatio := float64(out.Y) / float64(orig.Y)
	xRatio := float64(out.X) / float64(orig.X)

	res := make([]Box, len(boxes))
	for i, b := range boxes {
		res[i] = Box{
			YMin: b.YMin * yRatio,
			XMin: b.XMin * xRatio,
			YMax: b.YMax * yRatio,
			XMax: b.XMax * xRatio,
		}
	}
	return res
}

// FlipBoxesHorizontal отражает рамки по горизонтали для изображения ширины width.
func FlipBoxesHorizontal(boxes []Box, width float64) []Box {
	res := make([]Box, len(boxes))
	for i, b := range boxes {
		res[i] = Box{
			YMin: b.YMin,
			XMin: width - b.XMax,
			YMax: b.YMax,
			XMax: width - b.XMin,
		}
	}
	return res
}

// Shift сдвигает рамку на (dy, dx) и обрезает по [0,h]x[0,w]
func (b Box) Shift(dy, dx, h, w float64) Box {
	return Box{
		YMin: clampF(b.YMin+dy, 0, h),
		XMin: clampF(b.XMin+dx, 0, w),
		YMax: clampF(b.YMax+dy, 0, h),
		XMax: clampF(b.XMax+dx, 0, w),
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
