// Package registry 定义手表NFT代币注册表的公共接口
//
// 📋 **代币注册表 (Token Registry)**
//
// 注册表是一个只增不减的代币账本：
//   - 创作者可免费铸造，非创作者需支付 PublicFee
//   - 铸造出的代币处于转移锁定状态，铸造者认领（Claim）后方可转移
//   - 所有写操作严格串行，失败的操作不会留下任何状态
//
// 实现位于 internal/core/registry。
package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
)

// CreatorSet 创作者角色成员关系
//
// 铸造授权检查只依赖此接口，不关心名单存放位置。
type CreatorSet interface {
	// IsCreator 判断地址是否属于创作者名单
	IsCreator(ctx context.Context, addr common.Address) (bool, error)
}

// TokenRegistry 代币注册表接口
type TokenRegistry interface {
	CreatorSet

	// ==================== 写操作 ====================

	// Mint 铸造新代币，返回分配的代币ID
	// payment 为随请求附带的支付金额（wei），可为nil
	Mint(ctx context.Context, caller common.Address, uri string, payment *big.Int) (uint64, error)

	// ClaimMintedToken 铸造者认领代币，解除转移锁定
	ClaimMintedToken(ctx context.Context, caller common.Address, tokenID uint64) error

	// Transfer 持有者（或被授权者）将代币从当前持有者转给 to
	Transfer(ctx context.Context, caller, to common.Address, tokenID uint64) error

	// TransferFrom 将代币从 from 转给 to，from 必须是当前持有者
	TransferFrom(ctx context.Context, caller, from, to common.Address, tokenID uint64) error

	// ClaimAndTransfer 铸造者在同一原子操作中认领并转出代币
	ClaimAndTransfer(ctx context.Context, caller, to common.Address, tokenID uint64) error

	// Approve 设置单币授权，approved 为零地址表示撤销
	Approve(ctx context.Context, caller, approved common.Address, tokenID uint64) error

	// SetApprovalForAll 设置或撤销操作员授权
	SetApprovalForAll(ctx context.Context, caller, operator common.Address, approved bool) error

	// ==================== 读操作 ====================

	// TokenURI 返回带 ipfs:// 前缀的代币URI
	TokenURI(ctx context.Context, tokenID uint64) (string, error)
	// Token 返回完整代币记录
	Token(ctx context.Context, tokenID uint64) (*types.Token, error)
	// BalanceOf 返回地址持有的已解锁代币数量
	BalanceOf(ctx context.Context, owner common.Address) (uint64, error)
	// OwnerOf 返回代币持有者
	OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error)
	// MintOwner 返回代币锁定者，已认领时为零地址
	MintOwner(ctx context.Context, tokenID uint64) (common.Address, error)
	// TotalSupply 返回已铸造代币总数
	TotalSupply(ctx context.Context) (uint64, error)
	// GetApproved 返回单币授权地址
	GetApproved(ctx context.Context, tokenID uint64) (common.Address, error)
	// IsApprovedForAll 判断 operator 是否为 owner 的操作员
	IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error)

	// ==================== 管理操作 ====================

	// ListCreators 列出当前全部创作者
	ListCreators(ctx context.Context) ([]common.Address, error)
	// SetCreator 管理员增删创作者
	SetCreator(ctx context.Context, caller, creator common.Address, enabled bool) error
	// SetPublicFee 管理员调整铸造费（wei）
	SetPublicFee(ctx context.Context, caller common.Address, fee *big.Int) error
	// WithdrawFees 管理员提取全部已收取费用，返回提取金额
	WithdrawFees(ctx context.Context, caller, to common.Address) (*big.Int, error)
	// PublicFee 返回当前铸造费（wei）
	PublicFee(ctx context.Context) (*big.Int, error)
	// Info 返回注册表全局状态
	Info(ctx context.Context) (*types.RegistryInfo, error)

	// ==================== 事件日志 ====================

	// Events 返回序号 >= fromSeq 的事件，最多 limit 条
	Events(ctx context.Context, fromSeq uint64, limit int) ([]types.RegistryEvent, error)
}
