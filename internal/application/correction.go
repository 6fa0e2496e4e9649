package app

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

// CorrectionOptions параметры симуляции корректирующих кликов
type CorrectionOptions struct {
	VoidLabel uint8 // метка, исключённая из областей ошибок
	Clicks    int   // сколько кликов выдать за раунд
	Step      int   // полуразмер окна подавления вокруг клика
}

// DefaultCorrectionOptions возвращает параметры по умолчанию
func DefaultCorrectionOptions() CorrectionOptions {
	return CorrectionOptions{VoidLabel: 255, Clicks: 1, Step: 5}
}

// CorrectionService симулирует клики разметчика, исправляющего предсказание.
type CorrectionService struct {
	analyzer port.MaskAnalyzer
	logger   *logrus.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCorrectionService создаёт сервис. rng задаёт воспроизводимость выбора кликов.
func NewCorrectionService(analyzer port.MaskAnalyzer, rng *rand.Rand, logger *logrus.Logger) *CorrectionService {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CorrectionService{analyzer: analyzer, rng: rng, logger: logger}
}

// GenerateClicks выбирает клики в центре крупнейшей области ошибки.
// Клики попадают в точки, наиболее удалённые от границы области; после каждого
// клика окно [row-step, row+step) x [col-step, col+step) исключается.
// Если ошибок нет, возвращается пустой список.
func (s *CorrectionService) GenerateClicks(label, prediction entity.Mask, previous []entity.Click, opts CorrectionOptions) ([]entity.Click, error) {
	if !label.SameShape(prediction) {
		return nil, fmt.Errorf("%w: label %dx%d, prediction %dx%d", entity.ErrShapeMismatch,
			label.Width, label.Height, prediction.Width, prediction.Height)
	}
	if label.Empty() {
		return nil, entity.ErrEmptyMask
	}

	misclassified := entity.NewMask(label.Width, label.Height)
	for i, l := range label.Pix {
		if l != prediction.Pix[i] && l != opts.VoidLabel {
			misclassified.Pix[i] = 1
		}
	}

	labels, err := s.analyzer.Label(misclassified)
	if err != nil {
		return nil, fmt.Errorf("label error regions: %w", err)
	}

	// Уже кликнутые пиксели не участвуют в выборе.
	for _, c := range previous {
		if label.In(c.Row, c.Col) {
			labels.Pix[c.Row*labels.Width+c.Col] = 0
		}
	}

	largest, best := 0, 0
	for l, size := range labels.Sizes() {
		if l > 0 && size > best {
			largest, best = l, size
		}
	}
	if largest == 0 {
		return []entity.Click{}, nil
	}

	region := entity.NewMask(label.Width, label.Height)
	for y := 1; y < label.Height-1; y++ {
		for x := 1; x < label.Width-1; x++ {
			if labels.At(y, x) == int32(largest) {
				region.Set(y, x, 1)
			}
		}
	}

	dt, err := s.analyzer.DistanceTransform(region)
	if err != nil {
		return nil, fmt.Errorf("distance transform: %w", err)
	}

	clicks := make([]entity.Click, 0, opts.Clicks)
	for i := 0; i < opts.Clicks; i++ {
		peak := dt.Max()
		if !(peak > 0) {
			break
		}

		var farthest []int
		for idx, v := range dt.Pix {
			if v == peak {
				farthest = append(farthest, idx)
			}
		}
		idx := farthest[s.intn(len(farthest))]
		row, col := idx/dt.Width, idx%dt.Width

		for y := max(0, row-opts.Step); y < min(row+opts.Step, dt.Height); y++ {
			for x := max(0, col-opts.Step); x < min(col+opts.Step, dt.Width); x++ {
				dt.Set(y, x, 0)
			}
		}
		dt.Set(row, col, 0)

		kind := entity.Negative
		if label.At(row, col) == 1 {
			kind = entity.Positive
		}
		clicks = append(clicks, entity.Click{Row: row, Col: col, Kind: kind})
	}

	s.logger.WithFields(logrus.Fields{
		"regions":     labels.N,
		"region_size": best,
		"clicks":      len(clicks),
	}).Debug("correction clicks generated")

	return clicks, nil
}

func (s *CorrectionService) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
