package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestUniqueClicks_KeepsOrder(t *testing.T) {
	in := []Click{{Row: 1, Col: 1}, {Row: 2, Col: 2}, {Row: 1, Col: 1}, {Row: 0, Col: 5, Kind: Positive}}
	require.Equal(t, []Click{{Row: 1, Col: 1}, {Row: 2, Col: 2}, {Row: 0, Col: 5, Kind: Positive}}, UniqueClicks(in))
}

func TestClickKind_YAML(t *testing.T) {
	out, err := yaml.Marshal(Click{Row: 3, Col: 4, Kind: Positive})
	require.NoError(t, err)
	require.Contains(t, string(out), "kind: positive")

	var c Click
	require.NoError(t, yaml.Unmarshal(out, &c))
	require.Equal(t, Click{Row: 3, Col: 4, Kind: Positive}, c)
}

func TestResizeBoxes(t *testing.T) {
	got := ResizeBoxes([]Box{{YMin: 10, XMin: 20, YMax: 30, XMax: 40}}, image.Pt(50, 200), image.Pt(100, 100))
	require.Equal(t, []Box{{YMin: 20, XMin: 10, YMax: 60, XMax: 20}}, got)
}

func TestFlipBoxesHorizontal(t *testing.T) {
	got := FlipBoxesHorizontal([]Box{{YMin: 1, XMin: 2, YMax: 3, XMax: 4}}, 10)
	require.Equal(t, []Box{{YMin: 1, XMin: 6, YMax: 3, XMax: 8}}, got)
}
