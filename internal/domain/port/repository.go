package port

import (
	"context"

	"iseg-kit/internal/domain/entity"
)

// UserRepository хранит состояние диалога пользователя в чате
type UserRepository interface {
	// Get возвращает пользователя, новый создаётся в главном меню
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
	UpdateState(ctx context.Context, userID, chatID int64, state entity.UserState) error
}

// SessionRepository интерфейс хранилища сессий разметки
type SessionRepository interface {
	// Get возвращает сессию чата или entity.ErrNoSession
	Get(ctx context.Context, chatID int64) (*entity.Session, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.Session) error

	// Delete удаляет сессию
	Delete(ctx context.Context, chatID int64) error
}

// AnnotationStore интерфейс хранилища готовых разметок
type AnnotationStore interface {
	Put(ctx context.Context, a entity.Annotation) (entity.Annotation, error)
	Get(ctx context.Context, id string) (entity.Annotation, error)
	List(ctx context.Context) ([]entity.Annotation, error)
}
