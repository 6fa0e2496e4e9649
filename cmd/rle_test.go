package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"iseg-kit/internal/domain/entity"
)

func TestRLEDocument_CompressedOnly(t *testing.T) {
	m := entity.NewMask(7, 5)
	m.Set(1, 1, 1)
	m.Set(2, 1, 1)
	m.Set(4, 6, 1)
	rle, err := entity.EncodeMask(m)
	require.NoError(t, err)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	require.NoError(t, writeYAML(cmd, rleDocument{Size: rle.Size, Compressed: rle.String()}))

	var doc rleDocument
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Empty(t, doc.Counts)

	got, err := doc.rle()
	require.NoError(t, err)
	require.Equal(t, rle, got)
}

func TestRLEDocument_PlainCountsWin(t *testing.T) {
	doc := rleDocument{Size: [2]int{2, 2}, Counts: []int{1, 2, 1}, Compressed: "garbage"}
	got, err := doc.rle()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 1}, got.Counts)
}
