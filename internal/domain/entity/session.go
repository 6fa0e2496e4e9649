package entity

import (
	"errors"
	"image"
	"time"
)

var (
	ErrNoSession            = errors.New("session not found")
	ErrNoAnnotation         = errors.New("annotation not found")
	ErrPredictorUnavailable = errors.New("predictor is not configured")
)

// Session — сессия интерактивной разметки одного изображения.
type Session struct {
	ChatID      int64
	Name        string // имя исходного файла без расширения
	Image       image.Image
	GroundTruth Mask
	Prediction  Mask
	Clicks      []Click // клики предыдущих раундов
	UpdatedAt   time.Time
}

// NewSession создаёт сессию для изображения; предсказание изначально пустое.
func NewSession(chatID int64, name string, img image.Image) *Session {
	b := img.Bounds()
	return &Session{
		ChatID:     chatID,
		Name:       name,
		Image:      img,
		Prediction: NewMask(b.Dx(), b.Dy()),
		UpdatedAt:  time.Now(),
	}
}

// HasGroundTruth сообщает, загружена ли эталонная маска
func (s *Session) HasGroundTruth() bool {
	return !s.GroundTruth.Empty()
}

// Annotation — сохранённая разметка изображения.
type Annotation struct {
	ID        string    `yaml:"id"`
	Image     string    `yaml:"image"`
	Annotator string    `yaml:"annotator"`
	Height    int       `yaml:"height"`
	Width     int       `yaml:"width"`
	Counts    string    `yaml:"counts"`
	Clicks    []Click   `yaml:"clicks,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

// RLE восстанавливает кодирование из сжатой строки
func (a Annotation) RLE() (RLE, error) {
	return ParseRLEString(a.Height, a.Width, a.Counts)
}
