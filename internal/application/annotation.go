package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/sirupsen/logrus"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
	"iseg-kit/internal/infrastructure/vision"
)

var ErrNoGroundTruth = errors.New("ground truth mask is not loaded")

// RoundOutput результат одного раунда коррекции
type RoundOutput struct {
	Clicks  []entity.Click // клики этого раунда
	Total   int            // всего кликов в сессии
	IoU     float64        // IoU предсказания после раунда
	Done    bool           // ошибок не осталось
	Overlay *image.RGBA    // изображение с подсветкой предсказания и кликами
}

// AnnotationService ведёт сессии интерактивной разметки.
type AnnotationService struct {
	users      *UserService
	sessions   port.SessionRepository
	store      port.AnnotationStore
	correction *CorrectionService
	evaluation *EvaluationService
	predictor  port.Predictor
	opts       CorrectionOptions
	annotator  string
	logger     *logrus.Logger
}

// NewAnnotationService создаёт сервис; predictor может быть nil,
// тогда предсказание между раундами не меняется.
func NewAnnotationService(
	users *UserService,
	sessions port.SessionRepository,
	store port.AnnotationStore,
	correction *CorrectionService,
	evaluation *EvaluationService,
	predictor port.Predictor,
	opts CorrectionOptions,
	annotator string,
	logger *logrus.Logger,
) *AnnotationService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AnnotationService{
		users:      users,
		sessions:   sessions,
		store:      store,
		correction: correction,
		evaluation: evaluation,
		predictor:  predictor,
		opts:       opts,
		annotator:  annotator,
		logger:     logger,
	}
}

// AcceptImage начинает сессию с новым изображением и ждёт эталонную маску.
func (s *AnnotationService) AcceptImage(ctx context.Context, userID, chatID int64, name string, img image.Image) (*entity.User, error) {
	if err := s.sessions.Save(ctx, entity.NewSession(chatID, name, img)); err != nil {
		return nil, err
	}
	return s.users.AwaitMask(ctx, userID, chatID)
}

// AcceptMask сохраняет эталонную маску и возвращает её RLE.
func (s *AnnotationService) AcceptMask(ctx context.Context, userID, chatID int64, mask entity.Mask) (entity.RLE, error) {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return entity.RLE{}, err
	}
	if !session.Prediction.SameShape(mask) {
		return entity.RLE{}, fmt.Errorf("%w: image %dx%d, mask %dx%d", entity.ErrShapeMismatch,
			session.Prediction.Width, session.Prediction.Height, mask.Width, mask.Height)
	}

	rle, err := entity.EncodeMask(mask)
	if err != nil {
		return entity.RLE{}, err
	}

	session.GroundTruth = mask
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return entity.RLE{}, err
	}
	if _, err := s.users.StartAnnotating(ctx, userID, chatID); err != nil {
		return entity.RLE{}, err
	}

	return rle, nil
}

// NextRound симулирует клики по ошибкам текущего предсказания и обновляет его.
func (s *AnnotationService) NextRound(ctx context.Context, chatID int64) (*RoundOutput, error) {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !session.HasGroundTruth() {
		return nil, ErrNoGroundTruth
	}

	clicks, err := s.correction.GenerateClicks(session.GroundTruth, session.Prediction, session.Clicks, s.opts)
	if err != nil {
		return nil, err
	}
	session.Clicks = entity.UniqueClicks(append(session.Clicks, clicks...))

	if len(clicks) > 0 && s.predictor != nil {
		prediction, err := s.predictor.Predict(ctx, session.Image, session.Clicks)
		if err != nil {
			return nil, fmt.Errorf("predict: %w", err)
		}
		session.Prediction = prediction
	}

	iou, err := gtIoU(session.GroundTruth, session.Prediction, s.opts.VoidLabel)
	if err != nil {
		return nil, err
	}

	overlay, err := RenderOverlay(session.Image, session.Prediction, session.Clicks,
		fmt.Sprintf("clicks %d  iou %.3f", len(session.Clicks), iou))
	if err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"new":     len(clicks),
		"total":   len(session.Clicks),
		"iou":     iou,
	}).Info("annotation round")

	return &RoundOutput{
		Clicks:  clicks,
		Total:   len(session.Clicks),
		IoU:     iou,
		Done:    len(clicks) == 0,
		Overlay: overlay,
	}, nil
}

// Evaluate считает, сколько кликов нужно модели для изображения сессии.
// Клики и предсказание самой сессии не меняются.
func (s *AnnotationService) Evaluate(ctx context.Context, chatID int64, opts EvalOptions) (*EvalResult, error) {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !session.HasGroundTruth() {
		return nil, ErrNoGroundTruth
	}
	if s.evaluation == nil {
		return nil, entity.ErrPredictorUnavailable
	}
	return s.evaluation.Run(ctx, session.Image, session.GroundTruth, opts)
}

// ClickMapView рисует клики сессии, восстановленные из нормализованной карты расстояний.
func (s *AnnotationService) ClickMapView(ctx context.Context, chatID int64, gaussian bool) (*image.RGBA, error) {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}

	w, h := session.Prediction.Width, session.Prediction.Height
	dt, err := BuildClickMap(s.correction.analyzer, w, h, session.Clicks)
	if err != nil {
		return nil, err
	}
	views, err := vision.VisualiseClicks([]image.Image{session.Image},
		[]entity.FloatMap{NormaliseClickMap(dt, gaussian)}, vision.ClickBlue, gaussian)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// Finish сохраняет эталонную маску с кликами в хранилище и закрывает сессию.
func (s *AnnotationService) Finish(ctx context.Context, userID, chatID int64) (entity.Annotation, entity.RLE, error) {
	session, err := s.sessions.Get(ctx, chatID)
	if err != nil {
		return entity.Annotation{}, entity.RLE{}, err
	}
	if !session.HasGroundTruth() {
		return entity.Annotation{}, entity.RLE{}, ErrNoGroundTruth
	}

	rle, err := entity.EncodeMask(session.GroundTruth)
	if err != nil {
		return entity.Annotation{}, entity.RLE{}, err
	}

	a, err := s.store.Put(ctx, entity.Annotation{
		Image:     session.Name,
		Annotator: s.annotator,
		Height:    rle.Size[0],
		Width:     rle.Size[1],
		Counts:    rle.String(),
		Clicks:    session.Clicks,
	})
	if err != nil {
		return entity.Annotation{}, entity.RLE{}, fmt.Errorf("store annotation: %w", err)
	}

	if err := s.sessions.Delete(ctx, chatID); err != nil {
		return entity.Annotation{}, entity.RLE{}, err
	}
	if _, err := s.users.Cancel(ctx, userID, chatID); err != nil {
		return entity.Annotation{}, entity.RLE{}, err
	}

	return a, rle, nil
}

// Cancel закрывает сессию без сохранения
func (s *AnnotationService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := s.sessions.Delete(ctx, chatID); err != nil {
		return nil, err
	}
	return s.users.Cancel(ctx, userID, chatID)
}

// RenderOverlay подсвечивает предсказание и рисует клики:
// отрицательные красным, положительные синим.
func RenderOverlay(img image.Image, prediction entity.Mask, clicks []entity.Click, caption string) (*image.RGBA, error) {
	out, err := vision.MaskedImage(img, prediction.ToFloat(), vision.DefaultMultiplier, vision.GuidanceNone)
	if err != nil {
		return nil, err
	}

	vision.DrawClicks(out, clickPoints(entity.ClicksOfKind(clicks, entity.Negative)), vision.ClickRed)
	vision.DrawClicks(out, clickPoints(entity.ClicksOfKind(clicks, entity.Positive)), vision.ClickBlue)
	if caption != "" {
		vision.Caption(out, caption, 4, 14, color.White)
	}
	return out, nil
}

func clickPoints(clicks []entity.Click) []image.Point {
	pts := make([]image.Point, len(clicks))
	for i, c := range clicks {
		pts[i] = image.Pt(c.Col, c.Row)
	}
	return pts
}
