package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RegistryEventKind 注册表事件类型
type RegistryEventKind string

const (
	// EventTransfer 所有权转移（铸造时 From 为零地址）
	EventTransfer RegistryEventKind = "Transfer"
	// EventTokenClaimed 铸造者认领代币，解除转移锁定
	EventTokenClaimed RegistryEventKind = "TokenClaimed"
	// EventApproval 单币授权
	EventApproval RegistryEventKind = "Approval"
	// EventApprovalForAll 操作员授权
	EventApprovalForAll RegistryEventKind = "ApprovalForAll"
	// EventCreatorUpdated 创作者名单变更
	EventCreatorUpdated RegistryEventKind = "CreatorUpdated"
	// EventPublicFeeUpdated 铸造费变更
	EventPublicFeeUpdated RegistryEventKind = "PublicFeeUpdated"
	// EventFeesWithdrawn 已收取费用被提取
	EventFeesWithdrawn RegistryEventKind = "FeesWithdrawn"
)

// RegistryEvent 注册表追加式事件日志中的一条记录
//
// 各字段按事件类型取用：
//   - Transfer:         From, To, TokenID
//   - TokenClaimed:     From(=认领者), TokenID
//   - Approval:         From(=持有者), To(=被授权者), TokenID
//   - ApprovalForAll:   From(=持有者), To(=操作员), Flag
//   - CreatorUpdated:   To(=创作者), Flag
//   - PublicFeeUpdated: Amount
//   - FeesWithdrawn:    To, Amount
type RegistryEvent struct {
	Seq       uint64            `json:"seq"`
	Kind      RegistryEventKind `json:"kind"`
	From      common.Address    `json:"from"`
	To        common.Address    `json:"to"`
	TokenID   uint64            `json:"token_id"`
	Flag      bool              `json:"flag"`
	Amount    *big.Int          `json:"amount,omitempty"`
	Timestamp int64             `json:"timestamp"`
}
