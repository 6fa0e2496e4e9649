//go:build gocv
// +build gocv

package vision

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"iseg-kit/internal/domain/entity"
)

func TestGoCVAnalyzer_MatchesPureGo(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	gocvAnalyzer, pure := NewGoCVAnalyzer(), NewAnalyzer()

	for i := 0; i < 20; i++ {
		m := entity.NewMask(3+rng.Intn(20), 3+rng.Intn(20))
		for j := range m.Pix {
			if rng.Intn(3) > 0 {
				m.Pix[j] = 1
			}
		}

		want, err := pure.Label(m)
		require.NoError(t, err)
		got, err := gocvAnalyzer.Label(m)
		require.NoError(t, err)
		require.Equal(t, want, got)

		wantDT, err := pure.DistanceTransform(m)
		require.NoError(t, err)
		gotDT, err := gocvAnalyzer.DistanceTransform(m)
		require.NoError(t, err)
		require.Equal(t, wantDT.Pix, gotDT.Pix)
	}
}
