package storage

import (
	"context"
	"sync"

	"iseg-kit/internal/domain/entity"
	"iseg-kit/internal/domain/port"
)

// MemorySessionRepository хранит сессии разметки в памяти, ключ — чат.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*entity.Session
}

// NewMemorySessionRepository создаёт пустое хранилище сессий
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[int64]*entity.Session),
	}
}

// Get возвращает сессию чата или entity.ErrNoSession
func (r *MemorySessionRepository) Get(ctx context.Context, chatID int64) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[chatID]
	if !ok {
		return nil, entity.ErrNoSession
	}
	return session, nil
}

// Save сохраняет сессию
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	r.sessions[session.ChatID] = session
	r.mu.Unlock()

	return nil
}

// Delete удаляет сессию; отсутствие сессии не ошибка
func (r *MemorySessionRepository) Delete(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	delete(r.sessions, chatID)
	r.mu.Unlock()

	return nil
}

var _ port.SessionRepository = (*MemorySessionRepository)(nil)
