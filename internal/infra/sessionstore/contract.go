package sessionstore

import (
	"context"
	"time"
)

// Session эфемерная сессия SMS-верификации бронирования
// Draft - сериализованный черновик бронирования, который будет
// превращен в запись после ввода правильного кода
type Session struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	Phone     string    `json:"phone"`
	Draft     []byte    `json:"draft"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired возвращает true, если срок жизни сессии истёк
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Store хранилище верификационных сессий с TTL
// Реализации: in-memory (один инстанс, тесты) и Redis (шардированное развертывание)
type Store interface {
	// Put сохраняет сессию с заданным временем жизни
	Put(ctx context.Context, session *Session, ttl time.Duration) error

	// Get возвращает сессию по ID. Отсутствующая или вычищенная по TTL
	// сессия - ErrSessionNotFound
	Get(ctx context.Context, id string) (*Session, error)

	// IncrementAttempts атомарно увеличивает счётчик попыток и возвращает новое значение
	// Конкурентные вызовы confirm на одну сессию сериализуются именно здесь
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// Delete удаляет сессию
	Delete(ctx context.Context, id string) error

	// Sweep удаляет просроченные сессии, возвращая число удалённых
	// Для Redis - no-op: ключи истекают по TTL самостоятельно
	Sweep(ctx context.Context) (int, error)
}
