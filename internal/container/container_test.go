package container

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"iseg-kit/config"
	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/infrastructure/predictor"
	"iseg-kit/internal/infrastructure/storage"
	"iseg-kit/internal/infrastructure/vision"
)

func TestNew_EvaluationFromConfig(t *testing.T) {
	cfg := &config.Config{
		VoidLabel:      255,
		ClicksPerRound: 1,
		ClickStep:      5,
		GaussianClicks: true,
		MaxClicks:      4,
		IoUThreshold:   0.9,
		Seed:           7,
		Annotator:      "tester",
	}
	store, err := storage.NewYAMLAnnotationStore(filepath.Join(t.TempDir(), "annotations.yaml"))
	require.NoError(t, err)

	c := New(cfg, storage.NewMemoryUserRepository(), storage.NewMemorySessionRepository(), store,
		vision.NewAnalyzer(), predictor.NewRegionGrow(), logrus.New())

	require.True(t, c.GaussianClicks)
	require.Equal(t, 4, c.EvalOptions.MaxClicks)
	require.Equal(t, 0.9, c.EvalOptions.IoUThreshold)
	require.Equal(t, uint8(255), c.EvalOptions.Correction.VoidLabel)

	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	gt := entity.NewMask(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			v := uint8(20)
			if y >= 5 && y < 15 && x >= 5 && x < 15 {
				v = 230
				gt.Set(y, x, 1)
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	ctx := context.Background()
	_, err = c.AnnotationService.AcceptImage(ctx, 1, 10, "square", img)
	require.NoError(t, err)
	_, err = c.AnnotationService.AcceptMask(ctx, 1, 10, gt)
	require.NoError(t, err)

	res, err := c.AnnotationService.Evaluate(ctx, 10, c.EvalOptions)
	require.NoError(t, err)
	require.True(t, res.Reached)
	require.Equal(t, 1, res.NoC)
}
