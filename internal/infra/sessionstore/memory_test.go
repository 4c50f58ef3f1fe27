package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStoreWithClock(func() time.Time { return testNow })
	ctx := context.Background()

	session := &Session{ID: "s1", Code: "123456", Phone: "+79990001122", Draft: []byte(`{}`)}
	require.NoError(t, store.Put(ctx, session, 10*time.Minute))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, testNow.Add(10*time.Minute), got.ExpiresAt)

	// Get отдаёт копию: мутация результата не трогает хранилище
	got.Code = "000000"
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "123456", again.Code)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_IncrementAttempts(t *testing.T) {
	store := NewMemoryStoreWithClock(func() time.Time { return testNow })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{ID: "s1"}, time.Minute))

	for want := 1; want <= 3; want++ {
		got, err := store.IncrementAttempts(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := store.IncrementAttempts(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStoreWithClock(func() time.Time { return testNow })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{ID: "s1"}, time.Minute))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Повторное удаление безопасно
	assert.NoError(t, store.Delete(ctx, "s1"))
}

func TestMemoryStore_Sweep(t *testing.T) {
	now := testNow
	store := NewMemoryStoreWithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &Session{ID: "short"}, time.Minute))
	require.NoError(t, store.Put(ctx, &Session{ID: "long"}, time.Hour))
	assert.Equal(t, 2, store.Len())

	now = testNow.Add(5 * time.Minute)

	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())

	_, err = store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestSession_Expired(t *testing.T) {
	session := &Session{ExpiresAt: testNow}

	assert.False(t, session.Expired(testNow.Add(-time.Second)))
	assert.False(t, session.Expired(testNow))
	assert.True(t, session.Expired(testNow.Add(time.Second)))
}
