package sessionstore

import (
	"context"
	"sync"
	"time"
)

// MemoryStore in-memory реализация Store для одного инстанса и тестов
// Просроченные сессии удаляются периодическим Sweep (и лениво при Get не удаляются:
// решение об истечении принимает вызывающий код по ExpiresAt)
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore создает пустое in-memory хранилище сессий
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// NewMemoryStoreWithClock создает хранилище с инжектированными часами (для тестов)
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

// Put сохраняет сессию. TTL фиксируется в ExpiresAt самой сессии
func (s *MemoryStore) Put(_ context.Context, session *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	if stored.ExpiresAt.IsZero() {
		stored.ExpiresAt = s.now().Add(ttl)
	}
	s.sessions[session.ID] = &stored
	return nil
}

// Get возвращает копию сессии по ID
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *stored
	return &copied, nil
}

// IncrementAttempts атомарно увеличивает счётчик попыток под общим мьютексом
func (s *MemoryStore) IncrementAttempts(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[id]
	if !ok {
		return 0, ErrSessionNotFound
	}
	stored.Attempts++
	return stored.Attempts, nil
}

// Delete удаляет сессию
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Sweep удаляет все просроченные сессии
func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len возвращает текущее число сессий (для тестов и метрик)
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
