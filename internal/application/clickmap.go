package app

import (
	"math"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

const (
	gaussianClip  = 20.0
	gaussianSigma = 10.0
	gaussianScale = 25.0
	linearClip    = 255.0
)

// BuildClickMap строит карту расстояний от каждого пикселя до ближайшего клика.
// Без кликов карта заполнена +Inf.
func BuildClickMap(analyzer port.MaskAnalyzer, width, height int, clicks []entity.Click) (entity.FloatMap, error) {
	m := entity.NewMask(width, height)
	for i := range m.Pix {
		m.Pix[i] = 1
	}
	for _, c := range clicks {
		if m.In(c.Row, c.Col) {
			m.Set(c.Row, c.Col, 0)
		}
	}
	return analyzer.DistanceTransform(m)
}

// NormaliseClickMap приводит карту расстояний к входу сети.
// gaussian: обрезка на 20 и плотность N(0, 10), умноженная на 25;
// иначе обрезка на 255 и деление на 255.
func NormaliseClickMap(dt entity.FloatMap, gaussian bool) entity.FloatMap {
	out := entity.NewFloatMap(dt.Width, dt.Height)
	for i, d := range dt.Pix {
		if gaussian {
			d = math.Min(d, gaussianClip)
			out.Pix[i] = normPDF(d, gaussianSigma) * gaussianScale
			continue
		}
		out.Pix[i] = math.Min(d, linearClip) / linearClip
	}
	return out
}

func normPDF(x, sigma float64) float64 {
	return math.Exp(-x*x/(2*sigma*sigma)) / (sigma * math.Sqrt(2*math.Pi))
}
