package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httptypes "github.com/unicus/v1/internal/api/http/types"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
)

// TokenHandlers 代币铸造、认领、转移与授权接口
type TokenHandlers struct {
	registry registryif.TokenRegistry
	logger   log.Logger
}

// NewTokenHandlers 创建代币接口处理器
func NewTokenHandlers(registry registryif.TokenRegistry, logger log.Logger) *TokenHandlers {
	return &TokenHandlers{registry: registry, logger: logger}
}

// RegisterRoutes 注册代币路由
func (h *TokenHandlers) RegisterRoutes(r *gin.RouterGroup) {
	tokens := r.Group("/tokens")
	{
		tokens.POST("", h.Mint)
		tokens.GET("/:id", h.GetToken)
		tokens.GET("/:id/uri", h.TokenURI)
		tokens.GET("/:id/owner", h.OwnerOf)
		tokens.GET("/:id/mint-owner", h.MintOwner)
		tokens.GET("/:id/approved", h.GetApproved)
		tokens.POST("/:id/claim", h.Claim)
		tokens.POST("/:id/transfer", h.Transfer)
		tokens.POST("/:id/claim-transfer", h.ClaimAndTransfer)
		tokens.POST("/:id/approve", h.Approve)
	}
	r.POST("/operators", h.SetApprovalForAll)
}

// Mint 铸造代币
//
// POST /api/v1/tokens
func (h *TokenHandlers) Mint(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	var req httptypes.MintRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, ok := amountValue(c, "value", req.Value, req.ValueEther)
	if !ok {
		return
	}

	id, err := h.registry.Mint(c.Request.Context(), from, req.URI, payment)
	if err != nil {
		fail(c, err)
		return
	}
	uri, err := h.registry.TokenURI(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	h.logger.Infof("HTTP铸造成功: token=%d caller=%s", id, from.Hex())
	respond(c, http.StatusCreated, &httptypes.MintResponse{TokenID: id, TokenURI: uri})
}

// Claim 铸造者认领代币
//
// POST /api/v1/tokens/:id/claim
func (h *TokenHandlers) Claim(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	if err := h.registry.ClaimMintedToken(c.Request.Context(), from, id); err != nil {
		fail(c, err)
		return
	}
	h.token(c, id)
}

// Transfer 转移代币，请求体中给出 from 时按 TransferFrom 语义校验
//
// POST /api/v1/tokens/:id/transfer
func (h *TokenHandlers) Transfer(c *gin.Context) {
	sender, ok := caller(c)
	if !ok {
		return
	}
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	var req httptypes.TransferRequest
	if !bindJSON(c, &req) {
		return
	}
	to, ok := addressValue(c, "to", req.To)
	if !ok {
		return
	}

	var err error
	if req.From != "" {
		from, ok := addressValue(c, "from", req.From)
		if !ok {
			return
		}
		err = h.registry.TransferFrom(c.Request.Context(), sender, from, to, id)
	} else {
		err = h.registry.Transfer(c.Request.Context(), sender, to, id)
	}
	if err != nil {
		fail(c, err)
		return
	}
	h.token(c, id)
}

// ClaimAndTransfer 认领并转出
//
// POST /api/v1/tokens/:id/claim-transfer
func (h *TokenHandlers) ClaimAndTransfer(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	var req httptypes.ClaimTransferRequest
	if !bindJSON(c, &req) {
		return
	}
	to, ok := addressValue(c, "to", req.To)
	if !ok {
		return
	}
	if err := h.registry.ClaimAndTransfer(c.Request.Context(), from, to, id); err != nil {
		fail(c, err)
		return
	}
	h.token(c, id)
}

// Approve 单币授权
//
// POST /api/v1/tokens/:id/approve
func (h *TokenHandlers) Approve(c *gin.Context) {
	from, ok := caller(c)
	if !ok {
		return
	}
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	var req httptypes.ApproveRequest
	if !bindJSON(c, &req) {
		return
	}
	approved, ok := addressValue(c, "approved", req.Approved)
	if !ok {
		return
	}
	if err := h.registry.Approve(c.Request.Context(), from, approved, id); err != nil {
		fail(c, err)
		return
	}
	h.token(c, id)
}

// SetApprovalForAll 设置操作员
//
// POST /api/v1/operators
func (h *TokenHandlers) SetApprovalForAll(c *gin.Context) {
	owner, ok := caller(c)
	if !ok {
		return
	}
	var req httptypes.OperatorRequest
	if !bindJSON(c, &req) {
		return
	}
	operator, ok := addressValue(c, "operator", req.Operator)
	if !ok {
		return
	}
	if err := h.registry.SetApprovalForAll(c.Request.Context(), owner, operator, req.Approved); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.FlagResponse{Value: req.Approved})
}

// GetToken 代币视图
//
// GET /api/v1/tokens/:id
func (h *TokenHandlers) GetToken(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	h.token(c, id)
}

// TokenURI 代币URI
//
// GET /api/v1/tokens/:id/uri
func (h *TokenHandlers) TokenURI(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	uri, err := h.registry.TokenURI(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.URIResponse{TokenURI: uri})
}

// OwnerOf 代币持有者
//
// GET /api/v1/tokens/:id/owner
func (h *TokenHandlers) OwnerOf(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	owner, err := h.registry.OwnerOf(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.AddressResponse{Address: owner})
}

// MintOwner 代币锁定者
//
// GET /api/v1/tokens/:id/mint-owner
func (h *TokenHandlers) MintOwner(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	owner, err := h.registry.MintOwner(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.AddressResponse{Address: owner})
}

// GetApproved 单币授权地址
//
// GET /api/v1/tokens/:id/approved
func (h *TokenHandlers) GetApproved(c *gin.Context) {
	id, ok := tokenIDParam(c)
	if !ok {
		return
	}
	approved, err := h.registry.GetApproved(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.AddressResponse{Address: approved})
}

// token 读取并返回代币视图
func (h *TokenHandlers) token(c *gin.Context, id uint64) {
	tok, err := h.registry.Token(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.NewTokenView(tok))
}
