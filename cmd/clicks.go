package main

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	app "iseg-kit/internal/application"
	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/infrastructure/imageio"
	"iseg-kit/internal/infrastructure/vision"
)

var clicksFlags struct {
	n        int
	step     int
	void     int
	seed     int64
	image    string
	overlay  string
	clickMap string
	gaussian bool
}

var clicksCmd = &cobra.Command{
	Use:   "clicks <label.png> <prediction.png>",
	Short: "Симулировать корректирующие клики по ошибкам предсказания",
	Args:  cobra.ExactArgs(2),
	RunE:  runClicks,
}

var overlayMultiplier float64

var overlayCmd = &cobra.Command{
	Use:   "overlay <image> <mask.png> <out.png>",
	Short: "Подсветить маску на изображении",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := imageio.LoadImage(args[0])
		if err != nil {
			return err
		}
		mask, err := imageio.LoadMask(args[1])
		if err != nil {
			return err
		}
		out, err := vision.MaskedImage(img, mask.ToFloat(), overlayMultiplier, vision.GuidanceNone)
		if err != nil {
			return err
		}
		return imageio.SaveImage(args[2], out)
	},
}

func init() {
	f := clicksCmd.Flags()
	f.IntVarP(&clicksFlags.n, "n", "n", 1, "число кликов")
	f.IntVar(&clicksFlags.step, "step", 5, "полуширина окна, исключаемого вокруг клика")
	f.IntVar(&clicksFlags.void, "void", 255, "метка игнорируемых пикселей")
	f.Int64Var(&clicksFlags.seed, "seed", 0, "зерно генератора, 0 — по времени")
	f.StringVar(&clicksFlags.image, "image", "", "изображение для визуализации, по умолчанию разметка")
	f.StringVar(&clicksFlags.overlay, "overlay", "", "сохранить предсказание с кликами")
	f.StringVar(&clicksFlags.clickMap, "click-map", "", "сохранить клики, восстановленные из карты расстояний")
	f.BoolVar(&clicksFlags.gaussian, "gaussian", false, "гауссова нормализация карты кликов")

	overlayCmd.Flags().Float64Var(&overlayMultiplier, "multiplier", vision.DefaultMultiplier, "насыщенность подсветки")
}

func runClicks(cmd *cobra.Command, args []string) error {
	if clicksFlags.void < 0 || clicksFlags.void > 255 {
		return fmt.Errorf("--void must be in [0, 255], got %d", clicksFlags.void)
	}
	void := uint8(clicksFlags.void)

	label, err := imageio.LoadLabel(args[0], void)
	if err != nil {
		return err
	}
	prediction, err := imageio.LoadMask(args[1])
	if err != nil {
		return err
	}

	seed := clicksFlags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	analyzer := vision.NewDefaultAnalyzer()
	correction := app.NewCorrectionService(analyzer, rand.New(rand.NewSource(seed)), logger)

	clicks, err := correction.GenerateClicks(label, prediction, nil, app.CorrectionOptions{
		VoidLabel: void,
		Clicks:    clicksFlags.n,
		Step:      clicksFlags.step,
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"clicks":   len(clicks),
		"positive": len(entity.ClicksOfKind(clicks, entity.Positive)),
		"seed":     seed,
	}).Debug("clicks generated")

	var base image.Image = label.ToGray()
	if clicksFlags.image != "" {
		if base, err = imageio.LoadImage(clicksFlags.image); err != nil {
			return err
		}
	}

	if clicksFlags.overlay != "" {
		out, err := app.RenderOverlay(base, prediction, clicks, "")
		if err != nil {
			return err
		}
		if err := imageio.SaveImage(clicksFlags.overlay, out); err != nil {
			return err
		}
	}

	if clicksFlags.clickMap != "" {
		dt, err := app.BuildClickMap(analyzer, label.Width, label.Height, clicks)
		if err != nil {
			return err
		}
		norm := app.NormaliseClickMap(dt, clicksFlags.gaussian)
		out, err := vision.VisualiseClicks([]image.Image{base}, []entity.FloatMap{norm}, vision.ClickBlue, clicksFlags.gaussian)
		if err != nil {
			return err
		}
		if err := imageio.SaveImage(clicksFlags.clickMap, out[0]); err != nil {
			return err
		}
	}

	return writeYAML(cmd, clicks)
}
