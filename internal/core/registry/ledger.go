package registry

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
	"github.com/unicus/v1/pkg/types"
)

// ledgerTx 单次写操作的账本视图
//
// 包装一个 BadgerTransaction，记录本次操作改写过的代币和产生的事件，
// 由 Service 在提交成功后刷新缓存并发布事件。
type ledgerTx struct {
	tx  storage.BadgerTransaction
	now int64

	tokens map[uint64]*types.Token
	events []types.RegistryEvent
}

func newLedgerTx(tx storage.BadgerTransaction, now int64) *ledgerTx {
	return &ledgerTx{
		tx:     tx,
		now:    now,
		tokens: make(map[uint64]*types.Token),
	}
}

// ==================== 代币 ====================

func (l *ledgerTx) getToken(id uint64) (*types.Token, error) {
	if t, ok := l.tokens[id]; ok {
		return t, nil
	}
	if id == 0 {
		return nil, ErrTokenNotFound
	}
	data, err := l.tx.Get(tokenKey(id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrTokenNotFound
	}
	return decodeToken(id, data)
}

func (l *ledgerTx) putToken(t *types.Token) error {
	data, err := encodeToken(t)
	if err != nil {
		return err
	}
	if err := l.tx.Set(tokenKey(t.ID), data); err != nil {
		return err
	}
	l.tokens[t.ID] = t
	return nil
}

// ==================== 计数器 ====================

func (l *ledgerTx) getUint64(key []byte) (uint64, error) {
	data, err := l.tx.Get(key)
	if err != nil {
		return 0, err
	}
	return decodeUint64(data)
}

func (l *ledgerTx) totalSupply() (uint64, error) {
	return l.getUint64(keyTotalSupply)
}

func (l *ledgerTx) balance(addr common.Address) (uint64, error) {
	return l.getUint64(balanceKey(addr))
}

// adjustBalance 增减已解锁代币计数，计数归零时删除键
func (l *ledgerTx) adjustBalance(addr common.Address, credit bool) error {
	n, err := l.balance(addr)
	if err != nil {
		return err
	}
	if credit {
		n++
	} else if n > 0 {
		n--
	}
	if n == 0 {
		return l.tx.Delete(balanceKey(addr))
	}
	return l.tx.Set(balanceKey(addr), encodeUint64(n))
}

// ==================== 金额 ====================

func (l *ledgerTx) getAmount(key []byte) (*big.Int, error) {
	data, err := l.tx.Get(key)
	if err != nil {
		return nil, err
	}
	return decodeAmount(data), nil
}

func (l *ledgerTx) setAmount(key []byte, v *big.Int) error {
	return l.tx.Set(key, v.Bytes())
}

// ==================== 角色与授权 ====================

func (l *ledgerTx) admin() (common.Address, error) {
	data, err := l.tx.Get(keyAdmin)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(data), nil
}

// requireAdmin 未配置管理员时任何地址都不是管理员
func (l *ledgerTx) requireAdmin(caller common.Address) error {
	admin, err := l.admin()
	if err != nil {
		return err
	}
	if admin == (common.Address{}) || caller != admin {
		return ErrNotAdmin
	}
	return nil
}

func (l *ledgerTx) isCreator(addr common.Address) (bool, error) {
	return l.tx.Exists(creatorKey(addr))
}

func (l *ledgerTx) setCreator(addr common.Address, enabled bool) error {
	if enabled {
		return l.tx.Set(creatorKey(addr), []byte{1})
	}
	return l.tx.Delete(creatorKey(addr))
}

func (l *ledgerTx) isOperator(owner, operator common.Address) (bool, error) {
	return l.tx.Exists(operatorKey(owner, operator))
}

// ==================== 事件 ====================

// emit 追加事件日志，序号从1开始连续分配
func (l *ledgerTx) emit(ev types.RegistryEvent) error {
	seq, err := l.getUint64(keyEventSeq)
	if err != nil {
		return err
	}
	seq++
	ev.Seq = seq
	ev.Timestamp = l.now

	data, err := encodeEvent(&ev)
	if err != nil {
		return err
	}
	if err := l.tx.Set(eventKey(seq), data); err != nil {
		return err
	}
	if err := l.tx.Set(keyEventSeq, encodeUint64(seq)); err != nil {
		return err
	}
	l.events = append(l.events, ev)
	return nil
}
