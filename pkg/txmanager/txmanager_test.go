package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	// commitErrs[i] - ошибка коммита i-й транзакции, nil = успех
	commitErrs []error
	began      []*fakeTx
}

func (b *fakeBeginner) BeginTx(_ context.Context, _ *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	var commitErr error
	if len(b.began) < len(b.commitErrs) {
		commitErr = b.commitErrs[len(b.began)]
	}
	tx := &fakeTx{commitErr: commitErr}
	b.began = append(b.began, tx)
	return tx, nil
}

func serializationFailure() error {
	return &pq.Error{Code: "40001", Message: "could not serialize access due to read/write dependencies among transactions"}
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	beginner := &fakeBeginner{commitErrs: []error{serializationFailure(), nil}}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)

	// Первая транзакция проиграла сериализацию, вторая прошла
	assert.Equal(t, 2, calls)
	require.Len(t, beginner.began, 2)
	assert.True(t, beginner.began[1].committed)
}

func TestDoSerializable_GivesUpAfterRetryLimit(t *testing.T) {
	beginner := &fakeBeginner{commitErrs: []error{
		serializationFailure(), serializationFailure(), serializationFailure(), serializationFailure(),
	}}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.Error(t, err)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
	assert.Equal(t, maxSerializableRetries, calls)
}

func TestDoSerializable_NoRetryOnBusinessError(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	sentinel := errors.New("booking not found")
	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
	require.Len(t, beginner.began, 1)
	assert.True(t, beginner.began[0].rolledBack)
}

func TestDoSerializable_RetriesFlattenedStatementFailure(t *testing.T) {
	// Репозитории заворачивают ошибку запроса без сохранения цепочки,
	// остаётся только каноничный текст PostgreSQL
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("storage: internal error: failed to count bookings: pq: could not serialize access due to concurrent update")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	beginner := &fakeBeginner{}
	m := NewTransactionManager(beginner)

	executed := false
	err := m.Do(context.Background(), func(ctx context.Context) error {
		executed = true
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, executed)
	require.Len(t, beginner.began, 1)
	assert.True(t, beginner.began[0].committed)
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(serializationFailure()))
	assert.True(t, isSerializationFailure(errors.New("pq: could not serialize access due to concurrent update")))
	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(errors.New("pq: duplicate key value")))
	assert.False(t, isSerializationFailure(&pq.Error{Code: "23505"}))
}
