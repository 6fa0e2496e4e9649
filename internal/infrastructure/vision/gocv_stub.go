//go:build !gocv
// +build !gocv

package vision

import (
	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

// GoCVAnalyzer в сборке без тега gocv только возвращает ошибку.
type GoCVAnalyzer struct{}

// NewGoCVAnalyzer создаёт анализатор-заглушку (без OpenCV).
func NewGoCVAnalyzer() *GoCVAnalyzer {
	return &GoCVAnalyzer{}
}

// NewDefaultAnalyzer без OpenCV возвращает анализатор на чистом Go.
func NewDefaultAnalyzer() port.MaskAnalyzer {
	return NewAnalyzer()
}

// Label возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnalyzer) Label(m entity.Mask) (entity.LabelMap, error) {
	_ = m
	return entity.LabelMap{}, ErrGoCVDisabled
}

// DistanceTransform возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnalyzer) DistanceTransform(m entity.Mask) (entity.FloatMap, error) {
	_ = m
	return entity.FloatMap{}, ErrGoCVDisabled
}

var _ port.MaskAnalyzer = (*GoCVAnalyzer)(nil)
