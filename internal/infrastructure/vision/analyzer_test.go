package vision

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"iseg-kit/internal/domain/entity"
)

func maskFromRows(rows ...string) entity.Mask {
	m := entity.NewMask(len(rows[0]), len(rows))
	for r, line := range rows {
		for c, ch := range line {
			if ch == '1' {
				m.Set(r, c, 1)
			}
		}
	}
	return m
}

func TestAnalyzer_LabelEightConnectivity(t *testing.T) {
	m := maskFromRows(
		"1000011",
		"0100001",
		"0010000",
		"0000100",
	)
	labels, err := NewAnalyzer().Label(m)
	require.NoError(t, err)
	require.Equal(t, 3, labels.N)

	// диагональ — одна компонента, пронумерованная первой
	require.Equal(t, int32(1), labels.At(0, 0))
	require.Equal(t, int32(1), labels.At(2, 2))
	require.Equal(t, int32(2), labels.At(0, 5))
	require.Equal(t, int32(2), labels.At(1, 6))
	require.Equal(t, int32(3), labels.At(3, 4))
	require.Equal(t, []int{21, 3, 3, 1}, labels.Sizes())
}

func TestAnalyzer_LabelRasterOrderAfterMerge(t *testing.T) {
	// U-образная фигура: ветви получают разные метки и сливаются только в нижней строке
	m := maskFromRows(
		"101001",
		"101000",
		"111000",
	)
	labels, err := NewAnalyzer().Label(m)
	require.NoError(t, err)
	require.Equal(t, 2, labels.N)
	require.Equal(t, int32(1), labels.At(0, 2))
	require.Equal(t, int32(2), labels.At(0, 5))
}

func TestAnalyzer_LabelEmpty(t *testing.T) {
	_, err := NewAnalyzer().Label(entity.Mask{})
	require.ErrorIs(t, err, entity.ErrEmptyMask)
}

func bruteForceEDT(m entity.Mask) []float64 {
	out := make([]float64, len(m.Pix))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.At(y, x) == 0 {
				continue
			}
			best := math.Inf(1)
			for yy := 0; yy < m.Height; yy++ {
				for xx := 0; xx < m.Width; xx++ {
					if m.At(yy, xx) != 0 {
						continue
					}
					best = math.Min(best, math.Hypot(float64(y-yy), float64(x-xx)))
				}
			}
			out[y*m.Width+x] = best
		}
	}
	return out
}

func TestAnalyzer_DistanceTransformMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := NewAnalyzer()
	for i := 0; i < 10; i++ {
		m := entity.NewMask(3+rng.Intn(10), 3+rng.Intn(10))
		for k := range m.Pix {
			if rng.Float64() < 0.8 {
				m.Pix[k] = 1
			}
		}
		m.Pix[rng.Intn(len(m.Pix))] = 0

		dt, err := a.DistanceTransform(m)
		require.NoError(t, err)
		want := bruteForceEDT(m)
		for k := range want {
			require.InDelta(t, want[k], dt.Pix[k], 1e-9)
		}
	}
}

func TestAnalyzer_DistanceTransformNoZeros(t *testing.T) {
	m := maskFromRows("11", "11")
	dt, err := NewAnalyzer().DistanceTransform(m)
	require.NoError(t, err)
	for _, v := range dt.Pix {
		require.True(t, math.IsInf(v, 1))
	}
}

func TestGoCVAnalyzer_Default(t *testing.T) {
	require.NotNil(t, NewDefaultAnalyzer())
}
