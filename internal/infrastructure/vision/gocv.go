//go:build gocv
// +build gocv

package vision

import (
	"gocv.io/x/gocv"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

// GoCVAnalyzer размечает компоненты через OpenCV.
type GoCVAnalyzer struct {
	exact *Analyzer
}

// NewGoCVAnalyzer создаёт анализатор на OpenCV.
func NewGoCVAnalyzer() *GoCVAnalyzer {
	return &GoCVAnalyzer{exact: NewAnalyzer()}
}

// NewDefaultAnalyzer в сборке с тегом gocv возвращает анализатор на OpenCV.
func NewDefaultAnalyzer() port.MaskAnalyzer {
	return NewGoCVAnalyzer()
}

// Label размечает компоненты и перенумеровывает их в порядке обхода строк.
func (a *GoCVAnalyzer) Label(m entity.Mask) (entity.LabelMap, error) {
	src, err := maskToMat(m)
	if err != nil {
		return entity.LabelMap{}, err
	}
	defer src.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	n := gocv.ConnectedComponents(src, &labels)

	out := entity.LabelMap{Width: m.Width, Height: m.Height, Pix: make([]int32, m.Width*m.Height)}
	remap := make([]int32, max(n, 1))
	var next int32
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			l := labels.GetIntAt(y, x)
			if l <= 0 || int(l) >= len(remap) {
				continue
			}
			if remap[l] == 0 {
				next++
				remap[l] = next
			}
			out.Pix[y*m.Width+x] = remap[l]
		}
	}
	out.N = int(next)

	return out, nil
}

// DistanceTransform считает точное евклидово расстояние на чистом Go.
// Перегрузка cv::distanceTransform с метками не поддерживает DIST_MASK_PRECISE
// и даёт приближённые значения, а выбор клика сравнивает расстояния на равенство.
func (a *GoCVAnalyzer) DistanceTransform(m entity.Mask) (entity.FloatMap, error) {
	return a.exact.DistanceTransform(m)
}

// maskToMat превращает маску в CV_8U матрицу со значениями 0/255.
func maskToMat(m entity.Mask) (gocv.Mat, error) {
	if m.Empty() {
		return gocv.NewMat(), entity.ErrEmptyMask
	}
	data := make([]byte, len(m.Pix))
	for i, v := range m.Pix {
		if v != 0 {
			data[i] = 255
		}
	}
	return gocv.NewMatFromBytes(m.Height, m.Width, gocv.MatTypeCV8U, data)
}

var _ port.MaskAnalyzer = (*GoCVAnalyzer)(nil)
