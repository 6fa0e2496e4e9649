package storage

import (
	"context"
	"sync"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

// userKey — пользователь в конкретном чате: в группе и в личке у него
// независимые сессии разметки.
type userKey struct {
	userID, chatID int64
}

// MemoryUserRepository хранит состояния диалога в памяти
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[userKey]*entity.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[userKey]*entity.User),
	}
}

// Get возвращает пользователя чата; новый начинает в главном меню
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	key := userKey{userID, chatID}

	r.mu.RLock()
	user, ok := r.users[key]
	r.mu.RUnlock()
	if ok {
		return user, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[key]; ok {
		return user, nil
	}
	user = entity.NewUser(userID, chatID)
	r.users[key] = user
	return user, nil
}

func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	r.users[userKey{user.ID, user.ChatID}] = user
	r.mu.Unlock()
	return nil
}

// UpdateState меняет состояние, неизвестный пользователь создаётся
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID, chatID int64, state entity.UserState) error {
	user, err := r.Get(ctx, userID, chatID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	user.SetState(state)
	r.mu.Unlock()
	return nil
}

var _ port.UserRepository = (*MemoryUserRepository)(nil)
