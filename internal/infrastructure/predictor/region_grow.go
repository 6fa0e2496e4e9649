package predictor

import (
	"context"
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

// DefaultTolerance допуск цвета по умолчанию
const DefaultTolerance = 0.12

// RegionGrow — базовая модель: маска растёт от положительных кликов по пикселям,
// близким по цвету (расстояние в Lab) к цвету клика. Диски вокруг отрицательных
// кликов в маску не попадают.
type RegionGrow struct {
	Tolerance      float64 // максимальное расстояние в Lab до цвета затравки
	NegativeRadius int     // радиус запрета вокруг отрицательного клика
}

// NewRegionGrow создаёт модель с параметрами по умолчанию
func NewRegionGrow() *RegionGrow {
	return &RegionGrow{Tolerance: DefaultTolerance, NegativeRadius: 5}
}

// Predict строит маску по всем кликам. Без положительных кликов маска пустая.
func (p *RegionGrow) Predict(ctx context.Context, img image.Image, clicks []entity.Click) (entity.Mask, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := entity.NewMask(w, h)

	blocked := make([]bool, w*h)
	r := p.NegativeRadius
	for _, c := range entity.ClicksOfKind(clicks, entity.Negative) {
		for y := max(0, c.Row-r); y <= min(h-1, c.Row+r); y++ {
			for x := max(0, c.Col-r); x <= min(w-1, c.Col+r); x++ {
				dy, dx := y-c.Row, x-c.Col
				if dy*dy+dx*dx <= r*r {
					blocked[y*w+x] = true
				}
			}
		}
	}

	lab := make([]colorful.Color, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lab[y*w+x], _ = colorful.MakeColor(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}

	queue := make([]int, 0, 64)
	for _, c := range entity.ClicksOfKind(clicks, entity.Positive) {
		if err := ctx.Err(); err != nil {
			return entity.Mask{}, err
		}
		if !out.In(c.Row, c.Col) {
			continue
		}
		seedIdx := c.Row*w + c.Col
		if out.Pix[seedIdx] == 1 {
			continue
		}
		seed := lab[seedIdx]
		out.Pix[seedIdx] = 1
		queue = append(queue[:0], seedIdx)

		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			y, x := idx/w, idx%w
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				ny, nx := y+d[0], x+d[1]
				if ny < 0 || nx < 0 || ny >= h || nx >= w {
					continue
				}
				n := ny*w + nx
				if out.Pix[n] == 1 || blocked[n] {
					continue
				}
				if seed.DistanceLab(lab[n]) > p.Tolerance {
					continue
				}
				out.Pix[n] = 1
				queue = append(queue, n)
			}
		}
	}

	return out, nil
}

var _ port.Predictor = (*RegionGrow)(nil)
