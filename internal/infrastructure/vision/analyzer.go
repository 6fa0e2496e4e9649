package vision

import (
	"errors"
	"math"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// edtInf заменяет бесконечность в преобразовании расстояний, чтобы избежать NaN.
const edtInf = 1e20

// Analyzer — реализация MaskAnalyzer на чистом Go.
type Analyzer struct{}

// NewAnalyzer создаёт анализатор без внешних зависимостей.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Label размечает 8-связные компоненты. Метки идут в порядке первого пикселя компоненты.
func (a *Analyzer) Label(m entity.Mask) (entity.LabelMap, error) {
	if m.Empty() {
		return entity.LabelMap{}, entity.ErrEmptyMask
	}

	w, h := m.Width, m.Height
	prov := make([]int32, w*h)
	parent := []int32{0}

	find := func(x int32) int32 {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int32) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	// Первый проход: соседи W, NW, N, NE уже размечены.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Pix[y*w+x] == 0 {
				continue
			}
			var cur int32
			for _, d := range [4][2]int{{0, -1}, {-1, -1}, {-1, 0}, {-1, 1}} {
				ny, nx := y+d[0], x+d[1]
				if ny < 0 || nx < 0 || nx >= w {
					continue
				}
				n := prov[ny*w+nx]
				if n == 0 {
					continue
				}
				if cur == 0 {
					cur = n
				} else {
					union(cur, n)
				}
			}
			if cur == 0 {
				cur = int32(len(parent))
				parent = append(parent, cur)
			}
			prov[y*w+x] = cur
		}
	}

	// Второй проход: итоговые номера по порядку обхода.
	remap := make([]int32, len(parent))
	var next int32
	out := entity.LabelMap{Width: w, Height: h, Pix: make([]int32, w*h)}
	for i, p := range prov {
		if p == 0 {
			continue
		}
		root := find(p)
		if remap[root] == 0 {
			next++
			remap[root] = next
		}
		out.Pix[i] = remap[root]
	}
	out.N = int(next)

	return out, nil
}

// DistanceTransform — точное евклидово преобразование расстояний (Felzenszwalb–Huttenlocher).
// Если в маске нет нулевых пикселей, все расстояния равны +Inf.
func (a *Analyzer) DistanceTransform(m entity.Mask) (entity.FloatMap, error) {
	if m.Empty() {
		return entity.FloatMap{}, entity.ErrEmptyMask
	}

	w, h := m.Width, m.Height
	grid := make([]float64, w*h)
	for i, v := range m.Pix {
		if v != 0 {
			grid[i] = edtInf
		}
	}

	n := max(w, h)
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	// столбцы
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			f[y] = grid[y*w+x]
		}
		edt1d(f[:h], d[:h], v, z)
		for y := 0; y < h; y++ {
			grid[y*w+x] = d[y]
		}
	}
	// строки
	for y := 0; y < h; y++ {
		copy(f[:w], grid[y*w:(y+1)*w])
		edt1d(f[:w], d[:w], v, z)
		copy(grid[y*w:(y+1)*w], d[:w])
	}

	out := entity.NewFloatMap(w, h)
	for i, sq := range grid {
		if sq >= edtInf/2 {
			out.Pix[i] = math.Inf(1)
			continue
		}
		out.Pix[i] = math.Sqrt(sq)
	}

	return out, nil
}

// edt1d — нижняя огибающая парабол для одной строки.
func edt1d(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	for q := 1; q < n; q++ {
		s := intersect(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersect(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}

func intersect(f []float64, q, p int) float64 {
	fq, fp := float64(q), float64(p)
	return ((f[q] + fq*fq) - (f[p] + fp*fp)) / (2*fq - 2*fp)
}

var _ port.MaskAnalyzer = (*Analyzer)(nil)
