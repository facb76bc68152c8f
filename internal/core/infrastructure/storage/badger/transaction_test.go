package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
)

// newActiveTx 在测试存储上开启一个可写事务
func newActiveTx(t *testing.T, store *Store) *Transaction {
	t.Helper()
	tx := newTransaction(store.db)
	t.Cleanup(tx.Discard)
	return tx
}

// 测试事务基本操作
func TestTransactionCRUD(t *testing.T) {
	tx := newActiveTx(t, setupTestStore(t))

	key := []byte("tx-test-key")
	value := []byte("tx-test-value")

	require.NoError(t, tx.Set(key, value))

	val, err := tx.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, value, val)

	exists, err := tx.Exists(key)
	assert.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, tx.Delete(key))
	exists, err = tx.Exists(key)
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, int64(2*len(key)+len(value)), tx.WrittenBytes())
}

// 测试事务提交与丢弃
func TestTransactionCommitAndDiscard(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	tx1 := newActiveTx(t, store)
	tx2 := newActiveTx(t, store)

	require.NoError(t, tx1.Set([]byte("commit-key"), []byte("commit-value")))
	require.NoError(t, tx2.Set([]byte("discard-key"), []byte("discard-value")))

	require.NoError(t, tx1.Commit())
	assert.Equal(t, TxCommitted, tx1.State())
	tx2.Discard()
	assert.Equal(t, TxDiscarded, tx2.State())

	val, err := store.Get(ctx, []byte("commit-key"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("commit-value"), val)

	exists, err := store.Exists(ctx, []byte("discard-key"))
	assert.NoError(t, err)
	assert.False(t, exists, "丢弃的事务不应落盘")

	// 关闭后的事务拒绝操作
	assert.ErrorIs(t, tx1.Set([]byte("x"), []byte("y")), ErrTxClosed)
	_, err = tx2.Get([]byte("x"))
	assert.ErrorIs(t, err, ErrTxClosed)
	assert.Error(t, tx1.Commit(), "重复提交应该失败")
}

// 测试事务隔离性
func TestTransactionIsolation(t *testing.T) {
	store := setupTestStore(t)

	tx1 := newActiveTx(t, store)
	tx2 := newActiveTx(t, store)

	key := []byte("isolation-key")
	require.NoError(t, tx1.Set(key, []byte("isolation-value-1")))

	// 事务1提交前，事务2不应该看到修改
	exists, err := tx2.Exists(key)
	assert.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, tx1.Commit())

	tx3 := newActiveTx(t, store)
	val, err := tx3.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("isolation-value-1"), val)
}

// 测试只读事务提交
func TestTransactionCommit_ReadOnly(t *testing.T) {
	tx := newActiveTx(t, setupTestStore(t))

	_, err := tx.Get([]byte("missing"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit(), "没有写入的事务提交应直接成功")
	assert.Equal(t, TxCommitted, tx.State())
	assert.Zero(t, tx.WrittenBytes())
}

// 测试RunInTransaction失败回滚
func TestRunInTransaction_RollbackOnError(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	boom := errors.New("余额不足")

	err := store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		require.NoError(t, tx.Set([]byte("token/1"), []byte("owner")))
		return boom
	})
	assert.ErrorIs(t, err, boom, "应保留原始错误")

	exists, err := store.Exists(ctx, []byte("token/1"))
	require.NoError(t, err)
	assert.False(t, exists, "失败的操作不应留下任何写入")
}
