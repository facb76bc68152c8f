package registry

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/unicus/v1/pkg/types"
)

// tokenRecord 代币记录的存储格式（RLP）
//
// LockState 是接口类型，RLP 无法直接编码，落盘时展开为 Locked + LockedBy。
type tokenRecord struct {
	Owner    common.Address
	URI      string
	Locked   bool
	LockedBy common.Address
	Approved common.Address
	MintedAt uint64
}

// eventRecord 事件日志的存储格式（RLP）
type eventRecord struct {
	Kind      string
	From      common.Address
	To        common.Address
	TokenID   uint64
	Flag      bool
	Amount    *big.Int
	Timestamp uint64
}

func encodeToken(t *types.Token) ([]byte, error) {
	rec := tokenRecord{
		Owner:    t.Owner,
		URI:      t.URI,
		Approved: t.Approved,
		MintedAt: uint64(t.MintedAt),
	}
	if l, ok := t.Lock.(types.Locked); ok {
		rec.Locked = true
		rec.LockedBy = l.By
	}
	return rlp.EncodeToBytes(&rec)
}

func decodeToken(id uint64, data []byte) (*types.Token, error) {
	var rec tokenRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return nil, fmt.Errorf("解码代币记录 %d 失败: %w", id, err)
	}
	t := &types.Token{
		ID:       id,
		Owner:    rec.Owner,
		URI:      rec.URI,
		Approved: rec.Approved,
		MintedAt: int64(rec.MintedAt),
		Lock:     types.Unlocked{},
	}
	if rec.Locked {
		t.Lock = types.Locked{By: rec.LockedBy}
	}
	return t, nil
}

func encodeEvent(ev *types.RegistryEvent) ([]byte, error) {
	amount := ev.Amount
	if amount == nil {
		amount = new(big.Int)
	}
	return rlp.EncodeToBytes(&eventRecord{
		Kind:      string(ev.Kind),
		From:      ev.From,
		To:        ev.To,
		TokenID:   ev.TokenID,
		Flag:      ev.Flag,
		Amount:    amount,
		Timestamp: uint64(ev.Timestamp),
	})
}

func decodeEvent(seq uint64, data []byte) (types.RegistryEvent, error) {
	var rec eventRecord
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return types.RegistryEvent{}, fmt.Errorf("解码事件 %d 失败: %w", seq, err)
	}
	ev := types.RegistryEvent{
		Seq:       seq,
		Kind:      types.RegistryEventKind(rec.Kind),
		From:      rec.From,
		To:        rec.To,
		TokenID:   rec.TokenID,
		Flag:      rec.Flag,
		Timestamp: int64(rec.Timestamp),
	}
	if rec.Amount != nil && rec.Amount.Sign() > 0 {
		ev.Amount = rec.Amount
	}
	return ev, nil
}

// encodeUint64 / decodeUint64 计数器的8字节大端编码，nil 视为0
func encodeUint64(v uint64) []byte {
	return uint64Bytes(v)
}

func decodeUint64(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, nil
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("计数器长度无效: %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// decodeAmount 金额以大整数字节存储，nil 视为0
func decodeAmount(data []byte) *big.Int {
	return new(big.Int).SetBytes(data)
}
