package registry

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// 账本键布局
//
//	registry/meta/<name>                  全局状态
//	registry/token/<id:8字节大端>          代币记录
//	registry/balance/<addr>               已解锁代币计数
//	registry/creator/<addr>               创作者名单
//	registry/operator/<owner><operator>   操作员授权
//	registry/event/<seq:8字节大端>         事件日志
//
// 数字一律大端编码，保证 RangeScan 的字节序与数值序一致。
var (
	prefixMeta     = []byte("registry/meta/")
	prefixToken    = []byte("registry/token/")
	prefixBalance  = []byte("registry/balance/")
	prefixCreator  = []byte("registry/creator/")
	prefixOperator = []byte("registry/operator/")
	prefixEvent    = []byte("registry/event/")

	keyInitialized   = metaKey("initialized")
	keyTotalSupply   = metaKey("total_supply")
	keyPublicFee     = metaKey("public_fee")
	keyCollectedFees = metaKey("collected_fees")
	keyAdmin         = metaKey("admin")
	keyEventSeq      = metaKey("event_seq")
)

func metaKey(name string) []byte {
	return concat(prefixMeta, []byte(name))
}

func tokenKey(id uint64) []byte {
	return concat(prefixToken, uint64Bytes(id))
}

func balanceKey(addr common.Address) []byte {
	return concat(prefixBalance, addr.Bytes())
}

func creatorKey(addr common.Address) []byte {
	return concat(prefixCreator, addr.Bytes())
}

func operatorKey(owner, operator common.Address) []byte {
	return concat(prefixOperator, owner.Bytes(), operator.Bytes())
}

func eventKey(seq uint64) []byte {
	return concat(prefixEvent, uint64Bytes(seq))
}

// eventKeyEnd 事件日志范围扫描的上界（不含）
func eventKeyEnd() []byte {
	end := make([]byte, len(prefixEvent))
	copy(end, prefixEvent)
	end[len(end)-1]++
	return end
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
