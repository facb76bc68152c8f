package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenURIPrefix 代币URI的存储方案前缀
const TokenURIPrefix = "ipfs://"

// LockState 代币的转移锁状态
//
// 只有两种取值：Locked（铸造后、认领前）和 Unlocked（认领后）。
// Unlocked 为终态，不存在回到 Locked 的转换。
type LockState interface {
	isLockState()
}

// Locked 铸造后的锁定状态，By 为铸造者（mint-owner）
type Locked struct {
	By common.Address
}

// Unlocked 认领后的可转移状态
type Unlocked struct{}

func (Locked) isLockState()   {}
func (Unlocked) isLockState() {}

// Token 注册表中的一枚代币
type Token struct {
	ID       uint64         `json:"id"`
	Owner    common.Address `json:"owner"`
	URI      string         `json:"uri"` // 存储定位符，不含 ipfs:// 前缀
	Lock     LockState      `json:"-"`
	Approved common.Address `json:"approved"` // 单币授权地址，零地址表示无
	MintedAt int64          `json:"minted_at"`
}

// MintOwner 返回锁定者地址；已认领的代币返回零地址
func (t *Token) MintOwner() common.Address {
	if l, ok := t.Lock.(Locked); ok {
		return l.By
	}
	return common.Address{}
}

// IsLocked 代币是否仍处于转移锁定状态
func (t *Token) IsLocked() bool {
	_, ok := t.Lock.(Locked)
	return ok
}

// FullURI 返回带存储方案前缀的URI
func (t *Token) FullURI() string {
	return TokenURIPrefix + t.URI
}

// RegistryInfo 注册表全局状态快照
type RegistryInfo struct {
	TotalSupply   uint64         `json:"total_supply"`
	PublicFee     *big.Int       `json:"public_fee"`
	CollectedFees *big.Int       `json:"collected_fees"`
	Admin         common.Address `json:"admin"`
}
