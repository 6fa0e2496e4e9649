package app

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

// EvalOptions параметры оценки числа кликов
type EvalOptions struct {
	MaxClicks    int
	IoUThreshold float64
	Correction   CorrectionOptions
}

// DefaultEvalOptions возвращает бюджет в 20 кликов и цель IoU 0.85
func DefaultEvalOptions() EvalOptions {
	return EvalOptions{MaxClicks: 20, IoUThreshold: 0.85, Correction: DefaultCorrectionOptions()}
}

// EvalResult итог оценки одного изображения
type EvalResult struct {
	Clicks  []entity.Click
	IoUs    []float64 // IoU после каждого клика
	Reached bool      // достигнут ли порог IoU
	NoC     int       // число кликов до порога, иначе MaxClicks
}

// EvaluationService прогоняет симулированного разметчика против модели.
type EvaluationService struct {
	correction *CorrectionService
	predictor  port.Predictor
	logger     *logrus.Logger
}

// NewEvaluationService создаёт сервис оценки
func NewEvaluationService(correction *CorrectionService, predictor port.Predictor, logger *logrus.Logger) *EvaluationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EvaluationService{correction: correction, predictor: predictor, logger: logger}
}

// Run добавляет по одному корректирующему клику, пока IoU не достигнет порога
// или не кончится бюджет кликов.
func (s *EvaluationService) Run(ctx context.Context, img image.Image, gt entity.Mask, opts EvalOptions) (*EvalResult, error) {
	if s.predictor == nil {
		return nil, entity.ErrPredictorUnavailable
	}
	b := img.Bounds()
	if b.Dx() != gt.Width || b.Dy() != gt.Height {
		return nil, fmt.Errorf("%w: image %dx%d, ground truth %dx%d", entity.ErrShapeMismatch, b.Dx(), b.Dy(), gt.Width, gt.Height)
	}

	corr := opts.Correction
	corr.Clicks = 1

	prediction := entity.NewMask(gt.Width, gt.Height)
	res := &EvalResult{NoC: opts.MaxClicks}
	for len(res.Clicks) < opts.MaxClicks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clicks, err := s.correction.GenerateClicks(gt, prediction, res.Clicks, corr)
		if err != nil {
			return nil, err
		}
		if len(clicks) == 0 {
			break
		}
		res.Clicks = append(res.Clicks, clicks...)

		prediction, err = s.predictor.Predict(ctx, img, res.Clicks)
		if err != nil {
			return nil, fmt.Errorf("predict after %d clicks: %w", len(res.Clicks), err)
		}
		iou, err := gtIoU(gt, prediction, corr.VoidLabel)
		if err != nil {
			return nil, err
		}
		res.IoUs = append(res.IoUs, iou)

		if iou >= opts.IoUThreshold {
			res.Reached = true
			res.NoC = len(res.Clicks)
			break
		}
	}

	s.logger.WithFields(logrus.Fields{
		"clicks":  len(res.Clicks),
		"reached": res.Reached,
		"noc":     res.NoC,
	}).Info("evaluation finished")

	return res, nil
}

// gtIoU считает IoU, не учитывая пиксели с меткой void.
func gtIoU(gt, prediction entity.Mask, void uint8) (float64, error) {
	if !gt.SameShape(prediction) {
		return 0, entity.ErrShapeMismatch
	}
	var inter, union int
	for i, g := range gt.Pix {
		if g == void {
			continue
		}
		a, b := g == 1, prediction.Pix[i] == 1
		if a && b {
			inter++
		}
		if a || b {
			union++
		}
	}
	if union == 0 {
		return 1, nil
	}
	return float64(inter) / float64(union), nil
}
