package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ISEG_VOID_LABEL", "")
	t.Setenv("ISEG_CLICKS_PER_ROUND", "")
	t.Setenv("ISEG_IOU_THRESHOLD", "")
	t.Setenv("ISEG_ANNOTATIONS", "")
	t.Setenv("USER", "annotator")
	t.Setenv("ISEG_ANNOTATOR", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, uint8(255), cfg.VoidLabel)
	require.Equal(t, 1, cfg.ClicksPerRound)
	require.Equal(t, 0.85, cfg.IoUThreshold)
	require.Equal(t, "annotations.yaml", cfg.AnnotationsPath)
	require.Equal(t, "annotator", cfg.Annotator)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ISEG_VOID_LABEL", "0")
	t.Setenv("ISEG_CLICK_STEP", "3")
	t.Setenv("ISEG_GAUSSIAN_CLICKS", "true")
	t.Setenv("ISEG_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, uint8(0), cfg.VoidLabel)
	require.Equal(t, 3, cfg.ClickStep)
	require.True(t, cfg.GaussianClicks)
	require.Equal(t, int64(42), cfg.Seed)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("ISEG_VOID_LABEL", "300")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ISEG_VOID_LABEL", "")
	t.Setenv("ISEG_MAX_CLICKS", "many")
	_, err = Load()
	require.Error(t, err)
}
