package app

import (
	"context"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

// Upload — какой файл бот ждёт от пользователя
type Upload int

const (
	UploadNone  Upload = iota
	UploadImage        // изображение для разметки
	UploadMask         // эталонная маска к нему
)

// UserService ведёт пользователя по шагам разметки:
// главное меню → изображение → маска → клики.
type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// ExpectedUpload возвращает, что пользователь должен прислать следующим
func (s *UserService) ExpectedUpload(user *entity.User) Upload {
	switch user.State {
	case entity.StateAwaitingImage:
		return UploadImage
	case entity.StateAwaitingMask:
		return UploadMask
	default:
		return UploadNone
	}
}

func (s *UserService) BeginAnnotation(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.moveTo(ctx, userID, chatID, entity.StateAwaitingImage)
}

// AwaitMask вызывается, когда изображение принято
func (s *UserService) AwaitMask(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.moveTo(ctx, userID, chatID, entity.StateAwaitingMask)
}

// StartAnnotating вызывается, когда маска принята и можно кликать
func (s *UserService) StartAnnotating(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.moveTo(ctx, userID, chatID, entity.StateAnnotating)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.moveTo(ctx, userID, chatID, entity.StateMainMenu)
}

func (s *UserService) moveTo(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	if err := s.repo.UpdateState(ctx, userID, chatID, state); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}
