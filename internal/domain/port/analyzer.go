package port

import "iseg-kit/internal/domain/entity"

// MaskAnalyzer интерфейс численных операций над масками
type MaskAnalyzer interface {
	// Label размечает 8-связные компоненты ненулевых пикселей в порядке обхода строк
	Label(m entity.Mask) (entity.LabelMap, error)

	// DistanceTransform считает евклидово расстояние до ближайшего нулевого пикселя
	DistanceTransform(m entity.Mask) (entity.FloatMap, error)
}
