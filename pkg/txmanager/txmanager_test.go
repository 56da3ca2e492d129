package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/pkg/dbmetrics"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
	commitErr  error
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
	tx    *fakeTx
	opts  *sql.TxOptions
	calls int
	err   error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.calls++
	b.opts = opts
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestTransactionManager_Do_Commit(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, b.tx.committed)
	assert.False(t, b.tx.rolledBack)
	assert.Equal(t, sql.LevelDefault, b.opts.Isolation)
	assert.False(t, b.opts.ReadOnly)
}

func TestTransactionManager_Do_RollbackOnError(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)
	want := errors.New("capacity exceeded")

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return want
	})

	assert.ErrorIs(t, err, want)
	assert.True(t, b.tx.rolledBack)
	assert.False(t, b.tx.committed)
}

func TestTransactionManager_Do_RollbackOnPanic(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	assert.Panics(t, func() {
		_ = m.Do(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
	})
	assert.True(t, b.tx.rolledBack)
}

func TestTransactionManager_NestedReusesOuter(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoReadOnly(ctx, func(ctx context.Context) error {
			return nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, b.calls)
	assert.False(t, b.opts.ReadOnly)
}

func TestTransactionManager_DoReadOnly_Options(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{}}
	m := NewTransactionManager(b)

	err := m.DoReadOnly(context.Background(), func(ctx context.Context) error {
		return nil
	})

	require.NoError(t, err)
	assert.True(t, b.opts.ReadOnly)
	assert.Equal(t, sql.LevelRepeatableRead, b.opts.Isolation)
	assert.True(t, b.tx.committed)
}

func TestTransactionManager_SerializationFailure(t *testing.T) {
	b := &fakeBeginner{tx: &fakeTx{commitErr: &pq.Error{Code: "40001"}}}
	m := NewTransactionManager(b)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrSerialization)

	// взаимная блокировка внутри fn
	b = &fakeBeginner{tx: &fakeTx{}}
	m = NewTransactionManager(b)

	err = m.Do(context.Background(), func(ctx context.Context) error {
		return &pq.Error{Code: "40P01"}
	})

	assert.ErrorIs(t, err, ErrSerialization)
	assert.True(t, b.tx.rolledBack)
}

func TestTransactionManager_BeginFailure(t *testing.T) {
	b := &fakeBeginner{err: errors.New("connection refused")}
	m := NewTransactionManager(b)

	err := m.DoReadOnly(context.Background(), func(ctx context.Context) error {
		t.Fatal("fn must not be called")
		return nil
	})

	assert.ErrorIs(t, err, ErrBeginTx)
}
