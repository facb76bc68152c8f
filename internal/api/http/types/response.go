// Package types provides HTTP request/response type definitions.
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils"
)

// SuccessResponse 统一成功响应格式
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId,omitempty"`
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *SuccessResponse {
	return &SuccessResponse{
		Success: true,
		Data:    data,
	}
}

// WithRequestID 添加请求ID
func (r *SuccessResponse) WithRequestID(requestID string) *SuccessResponse {
	r.RequestID = requestID
	return r
}

// ==================== 请求体 ====================

// MintRequest 铸造请求
// Value 为 wei 整数字符串；ValueEther 为 ether 小数字符串，两者都给出时以 Value 为准
type MintRequest struct {
	URI        string `json:"uri" binding:"required"`
	Value      string `json:"value,omitempty"`
	ValueEther string `json:"value_ether,omitempty"`
}

// TransferRequest 转移请求，From 为空时按当前持有者转出
type TransferRequest struct {
	To   string `json:"to" binding:"required"`
	From string `json:"from,omitempty"`
}

// ClaimTransferRequest 认领并转移请求
type ClaimTransferRequest struct {
	To string `json:"to" binding:"required"`
}

// ApproveRequest 单币授权请求，Approved 为零地址表示撤销
type ApproveRequest struct {
	Approved string `json:"approved" binding:"required"`
}

// OperatorRequest 操作员授权请求
type OperatorRequest struct {
	Operator string `json:"operator" binding:"required"`
	Approved bool   `json:"approved"`
}

// CreatorRequest 创作者名单变更请求
type CreatorRequest struct {
	Enabled bool `json:"enabled"`
}

// FeeRequest 铸造费调整请求，字段语义同 MintRequest
type FeeRequest struct {
	Fee      string `json:"fee,omitempty"`
	FeeEther string `json:"fee_ether,omitempty"`
}

// WithdrawRequest 提取费用请求，To 为空时提取给管理员自己
type WithdrawRequest struct {
	To string `json:"to,omitempty"`
}

// EventsQuery 事件日志查询参数
type EventsQuery struct {
	From  uint64 `form:"from"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ==================== 响应体 ====================

// TokenView 代币视图
type TokenView struct {
	ID        uint64         `json:"id"`
	Owner     common.Address `json:"owner"`
	URI       string         `json:"uri"`
	TokenURI  string         `json:"tokenURI"`
	MintOwner common.Address `json:"mintOwner"`
	Locked    bool           `json:"locked"`
	Approved  common.Address `json:"approved"`
	MintedAt  int64          `json:"mintedAt"`
}

// NewTokenView 由代币记录构造视图
func NewTokenView(t *types.Token) *TokenView {
	return &TokenView{
		ID:        t.ID,
		Owner:     t.Owner,
		URI:       t.URI,
		TokenURI:  t.FullURI(),
		MintOwner: t.MintOwner(),
		Locked:    t.IsLocked(),
		Approved:  t.Approved,
		MintedAt:  t.MintedAt,
	}
}

// MintResponse 铸造结果
type MintResponse struct {
	TokenID  uint64 `json:"tokenId"`
	TokenURI string `json:"tokenURI"`
}

// AddressResponse 单个地址读取结果
type AddressResponse struct {
	Address common.Address `json:"address"`
}

// BalanceResponse 余额读取结果
type BalanceResponse struct {
	Address common.Address `json:"address"`
	Balance uint64         `json:"balance"`
}

// FlagResponse 布尔读取结果
type FlagResponse struct {
	Value bool `json:"value"`
}

// URIResponse 代币URI读取结果
type URIResponse struct {
	TokenURI string `json:"tokenURI"`
}

// AmountResponse 金额结果（wei 与 ether 两种表示）
type AmountResponse struct {
	Wei   string `json:"wei"`
	Ether string `json:"ether"`
}

// RegistryResponse 注册表全局状态
type RegistryResponse struct {
	TotalSupply   uint64           `json:"totalSupply"`
	PublicFee     AmountResponse   `json:"publicFee"`
	CollectedFees AmountResponse   `json:"collectedFees"`
	Admin         common.Address   `json:"admin"`
	Creators      []common.Address `json:"creators"`
}

// EventPage 事件日志分页结果，NextFrom 为下一页的起始序号
type EventPage struct {
	Events   []types.RegistryEvent `json:"events"`
	NextFrom uint64                `json:"nextFrom"`
}

// HealthResponse 健康检查结果
type HealthResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	TotalSupply uint64 `json:"totalSupply"`
}

// NewAmount 由 wei 金额构造金额结果
func NewAmount(wei *big.Int) AmountResponse {
	if wei == nil {
		wei = new(big.Int)
	}
	return AmountResponse{Wei: wei.String(), Ether: utils.FormatWeiToEther(wei)}
}
