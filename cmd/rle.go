package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/infrastructure/imageio"
)

// rleDocument — YAML-представление RLE: несжатые counts и/или строка pycocotools
type rleDocument struct {
	Size       [2]int `yaml:"size"`
	Counts     []int  `yaml:"counts,omitempty"`
	Compressed string `yaml:"compressed,omitempty"`
}

func (d rleDocument) rle() (entity.RLE, error) {
	if len(d.Counts) == 0 && d.Compressed != "" {
		return entity.ParseRLEString(d.Size[0], d.Size[1], d.Compressed)
	}
	return entity.RLE{Size: d.Size, Counts: d.Counts}, nil
}

var encodeCmd = &cobra.Command{
	Use:   "encode <mask.png>",
	Short: "Закодировать бинарную маску в RLE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mask, err := imageio.LoadMask(args[0])
		if err != nil {
			return err
		}
		rle, err := entity.EncodeMask(mask)
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"mask": args[0],
			"area": rle.Area(),
			"runs": len(rle.Counts),
		}).Debug("mask encoded")

		return writeYAML(cmd, rleDocument{Size: rle.Size, Counts: rle.Counts, Compressed: rle.String()})
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <rle.yaml> <out.png>",
	Short: "Восстановить маску из RLE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var doc rleDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		rle, err := doc.rle()
		if err != nil {
			return err
		}
		mask, err := entity.DecodeMask(rle)
		if err != nil {
			return err
		}
		return imageio.SaveImage(args[1], mask.ToGray())
	},
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
