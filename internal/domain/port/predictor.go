package port

import (
	"context"
	"image"

	"iseg-kit/internal/domain/entity"
)

// Predictor интерфейс модели интерактивной сегментации
type Predictor interface {
	// Predict возвращает маску объекта по изображению и всем кликам
	Predict(ctx context.Context, img image.Image, clicks []entity.Click) (entity.Mask, error)
}
