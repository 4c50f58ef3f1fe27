package sessionstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore реализация Store поверх Redis для развертывания в несколько инстансов
// Сессия хранится в hash, TTL навешивается на ключ целиком,
// счётчик попыток инкрементируется атомарно через HINCRBY
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создает хранилище сессий поверх готового клиента Redis
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("verification:session:%s", id)
}

// Put сохраняет сессию с TTL
func (s *RedisStore) Put(ctx context.Context, session *Session, ttl time.Duration) error {
	key := sessionKey(session.ID)

	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(ttl)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"code", session.Code,
		"attempts", session.Attempts,
		"phone", session.Phone,
		"draft", session.Draft,
		"expires_at", expiresAt.Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: put session: %v", ErrStore, err)
	}
	return nil
}

// Get возвращает сессию по ID. Истекшие по TTL ключи отсутствуют в Redis
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: get session: %v", ErrStore, err)
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	attempts, err := strconv.Atoi(fields["attempts"])
	if err != nil {
		return nil, fmt.Errorf("%w: parse attempts: %v", ErrStore, err)
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return nil, fmt.Errorf("%w: parse expires_at: %v", ErrStore, err)
	}

	return &Session{
		ID:        id,
		Code:      fields["code"],
		Attempts:  attempts,
		Phone:     fields["phone"],
		Draft:     []byte(fields["draft"]),
		ExpiresAt: expiresAt,
	}, nil
}

// IncrementAttempts атомарно увеличивает счётчик попыток
func (s *RedisStore) IncrementAttempts(ctx context.Context, id string) (int, error) {
	key := sessionKey(id)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: check session: %v", ErrStore, err)
	}
	if exists == 0 {
		return 0, ErrSessionNotFound
	}

	attempts, err := s.client.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: increment attempts: %v", ErrStore, err)
	}
	return int(attempts), nil
}

// Delete удаляет сессию
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: delete session: %v", ErrStore, err)
	}
	return nil
}

// Sweep no-op: Redis удаляет ключи по TTL самостоятельно
func (s *RedisStore) Sweep(_ context.Context) (int, error) {
	return 0, nil
}
