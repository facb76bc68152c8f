package badger

import (
	"errors"
	"fmt"
	"sync/atomic"

	badgerdb "github.com/dgraph-io/badger/v3"

	"github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
)

var _ storage.BadgerTransaction = (*Transaction)(nil)

// TransactionState 事务状态
type TransactionState int32

const (
	TxActive TransactionState = iota
	TxCommitted
	TxDiscarded
)

var (
	// ErrTxClosed 事务已提交或已丢弃
	ErrTxClosed = errors.New("事务已关闭")
	// ErrTxTooLarge 单次操作写入超过 badger 事务上限
	ErrTxTooLarge = errors.New("事务写入量超过上限")
)

// Transaction 一次注册表操作对应的读写事务
//
// 同一事务内的读取可以看到本事务之前的写入，提交前对其他事务不可见。
type Transaction struct {
	txn     *badgerdb.Txn
	state   atomic.Int32
	writes  int   // 写操作次数，为零时提交退化为丢弃
	written int64 // 已写入的键值字节数
}

func newTransaction(db *badgerdb.DB) *Transaction {
	return &Transaction{txn: db.NewTransaction(true)}
}

func (t *Transaction) active() error {
	if TransactionState(t.state.Load()) != TxActive {
		return ErrTxClosed
	}
	return nil
}

// Get 读取键值，键不存在时返回 nil, nil
func (t *Transaction) Get(key []byte) ([]byte, error) {
	if err := t.active(); err != nil {
		return nil, err
	}
	item, err := t.txn.Get(key)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("复制键值失败: %w", err)
	}
	return val, nil
}

// Exists 检查键是否存在
func (t *Transaction) Exists(key []byte) (bool, error) {
	if err := t.active(); err != nil {
		return false, err
	}
	_, err := t.txn.Get(key)
	switch {
	case errors.Is(err, badgerdb.ErrKeyNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("检查键存在性失败: %w", err)
	}
	return true, nil
}

// Set 写入键值
func (t *Transaction) Set(key, value []byte) error {
	if err := t.active(); err != nil {
		return err
	}
	if err := t.txn.Set(key, value); err != nil {
		return t.wrapWrite("设置键值失败", err)
	}
	t.writes++
	t.written += int64(len(key) + len(value))
	return nil
}

// Delete 删除键，键不存在时不报错
func (t *Transaction) Delete(key []byte) error {
	if err := t.active(); err != nil {
		return err
	}
	if err := t.txn.Delete(key); err != nil {
		return t.wrapWrite("删除键值失败", err)
	}
	t.writes++
	t.written += int64(len(key))
	return nil
}

func (t *Transaction) wrapWrite(msg string, err error) error {
	if errors.Is(err, badgerdb.ErrTxnTooBig) {
		return fmt.Errorf("%s: %w (已写入 %d 字节)", msg, ErrTxTooLarge, t.written)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Commit 提交事务；没有写操作时直接释放
func (t *Transaction) Commit() error {
	if !t.state.CompareAndSwap(int32(TxActive), int32(TxCommitted)) {
		if TransactionState(t.state.Load()) == TxCommitted {
			return errors.New("事务已提交")
		}
		return errors.New("事务已丢弃，无法提交")
	}
	if t.writes == 0 {
		t.txn.Discard()
		return nil
	}
	if err := t.txn.Commit(); err != nil {
		// badger 提交失败后事务不可再用
		t.state.Store(int32(TxDiscarded))
		return fmt.Errorf("事务提交失败: %w", err)
	}
	return nil
}

// Discard 丢弃事务，重复调用无副作用
func (t *Transaction) Discard() {
	if t.state.CompareAndSwap(int32(TxActive), int32(TxDiscarded)) {
		t.txn.Discard()
	}
}

// State 返回事务当前状态
func (t *Transaction) State() TransactionState {
	return TransactionState(t.state.Load())
}

// WrittenBytes 返回事务内已写入的键值字节数
func (t *Transaction) WrittenBytes() int64 {
	return t.written
}
