package main

import (
	"fmt"
	"image"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	app "iseg-kit/internal/application"
	"iseg-kit/internal/infrastructure/imageio"
	"iseg-kit/internal/infrastructure/predictor"
	"iseg-kit/internal/infrastructure/vision"
)

var evalFlags struct {
	maxClicks int
	iou       float64
	void      int
	seed      int64
	tolerance float64
}

var evalCmd = &cobra.Command{
	Use:   "eval <image> <label.png>",
	Short: "Посчитать число кликов до целевого IoU",
	Args:  cobra.ExactArgs(2),
	RunE:  runEval,
}

var augmentFlags struct {
	width, height         int
	cropWidth, cropHeight int
	flip                  bool
	seed                  int64
}

var augmentCmd = &cobra.Command{
	Use:   "augment <image> <mask.png> <out-dir>",
	Short: "Масштабировать, вырезать и отразить пример выборки",
	Args:  cobra.ExactArgs(3),
	RunE:  runAugment,
}

func init() {
	def := app.DefaultEvalOptions()
	f := evalCmd.Flags()
	f.IntVar(&evalFlags.maxClicks, "max-clicks", def.MaxClicks, "бюджет кликов")
	f.Float64Var(&evalFlags.iou, "iou", def.IoUThreshold, "целевой IoU")
	f.IntVar(&evalFlags.void, "void", int(def.Correction.VoidLabel), "метка игнорируемых пикселей")
	f.Int64Var(&evalFlags.seed, "seed", 0, "зерно генератора, 0 — по времени")
	f.Float64Var(&evalFlags.tolerance, "tolerance", predictor.DefaultTolerance, "допуск цвета при наращивании области")

	a := augmentCmd.Flags()
	a.IntVar(&augmentFlags.width, "width", 0, "ширина после масштабирования")
	a.IntVar(&augmentFlags.height, "height", 0, "высота после масштабирования")
	a.IntVar(&augmentFlags.cropWidth, "crop-width", 0, "ширина случайного кадра")
	a.IntVar(&augmentFlags.cropHeight, "crop-height", 0, "высота случайного кадра")
	a.BoolVar(&augmentFlags.flip, "flip", false, "отразить по горизонтали")
	a.Int64Var(&augmentFlags.seed, "seed", 0, "зерно генератора, 0 — по времени")
}

func runEval(cmd *cobra.Command, args []string) error {
	if evalFlags.void < 0 || evalFlags.void > 255 {
		return fmt.Errorf("--void must be in [0, 255], got %d", evalFlags.void)
	}

	img, err := imageio.LoadImage(args[0])
	if err != nil {
		return err
	}
	gt, err := imageio.LoadLabel(args[1], uint8(evalFlags.void))
	if err != nil {
		return err
	}

	opts := app.DefaultEvalOptions()
	opts.MaxClicks = evalFlags.maxClicks
	opts.IoUThreshold = evalFlags.iou
	opts.Correction.VoidLabel = uint8(evalFlags.void)

	rg := predictor.NewRegionGrow()
	rg.Tolerance = evalFlags.tolerance

	correction := app.NewCorrectionService(vision.NewDefaultAnalyzer(), newRand(evalFlags.seed), logger)
	res, err := app.NewEvaluationService(correction, rg, logger).Run(cmd.Context(), img, gt, opts)
	if err != nil {
		return err
	}

	return writeYAML(cmd, struct {
		Image   string    `yaml:"image"`
		NoC     int       `yaml:"noc"`
		Reached bool      `yaml:"reached"`
		IoUs    []float64 `yaml:"ious,flow"`
		Clicks  any       `yaml:"clicks"`
	}{imageio.FileStem(args[0]), res.NoC, res.Reached, res.IoUs, res.Clicks})
}

func runAugment(cmd *cobra.Command, args []string) error {
	img, err := imageio.LoadImage(args[0])
	if err != nil {
		return err
	}
	mask, err := imageio.LoadMask(args[1])
	if err != nil {
		return err
	}

	s := app.Sample{Image: img, Mask: mask}
	if augmentFlags.width > 0 && augmentFlags.height > 0 {
		if s, err = app.ResizeSample(s, image.Pt(augmentFlags.width, augmentFlags.height)); err != nil {
			return err
		}
	}
	if augmentFlags.cropWidth > 0 && augmentFlags.cropHeight > 0 {
		size := image.Pt(augmentFlags.cropWidth, augmentFlags.cropHeight)
		if s, err = app.RandomCropSample(s, size, newRand(augmentFlags.seed)); err != nil {
			return err
		}
	}
	if augmentFlags.flip {
		if s, err = app.FlipSampleHorizontal(s); err != nil {
			return err
		}
	}

	stem := imageio.FileStem(args[0])
	imgPath := filepath.Join(args[2], stem+"_aug.png")
	maskPath := filepath.Join(args[2], stem+"_aug_mask.png")
	if err := imageio.SaveImage(imgPath, s.Image); err != nil {
		return err
	}
	if err := imageio.SaveImage(maskPath, s.Mask.ToGray()); err != nil {
		return err
	}

	logger.WithField("image", imgPath).WithField("mask", maskPath).Info("sample augmented")
	return nil
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
