package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httptypes "github.com/unicus/v1/internal/api/http/types"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
)

// AccountHandlers 账户维度的只读接口
type AccountHandlers struct {
	registry registryif.TokenRegistry
}

// NewAccountHandlers 创建账户接口处理器
func NewAccountHandlers(registry registryif.TokenRegistry) *AccountHandlers {
	return &AccountHandlers{registry: registry}
}

// RegisterRoutes 注册账户路由
func (h *AccountHandlers) RegisterRoutes(r *gin.RouterGroup) {
	accounts := r.Group("/accounts")
	{
		accounts.GET("/:address/balance", h.Balance)
		accounts.GET("/:address/creator", h.IsCreator)
		accounts.GET("/:address/operators/:operator", h.IsOperator)
	}
}

// Balance 已解锁代币数量
//
// GET /api/v1/accounts/:address/balance
func (h *AccountHandlers) Balance(c *gin.Context) {
	addr, ok := addressValue(c, "address", c.Param("address"))
	if !ok {
		return
	}
	balance, err := h.registry.BalanceOf(c.Request.Context(), addr)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.BalanceResponse{Address: addr, Balance: balance})
}

// IsCreator 是否为创作者
//
// GET /api/v1/accounts/:address/creator
func (h *AccountHandlers) IsCreator(c *gin.Context) {
	addr, ok := addressValue(c, "address", c.Param("address"))
	if !ok {
		return
	}
	creator, err := h.registry.IsCreator(c.Request.Context(), addr)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.FlagResponse{Value: creator})
}

// IsOperator 是否为操作员
//
// GET /api/v1/accounts/:address/operators/:operator
func (h *AccountHandlers) IsOperator(c *gin.Context) {
	owner, ok := addressValue(c, "address", c.Param("address"))
	if !ok {
		return
	}
	operator, ok := addressValue(c, "operator", c.Param("operator"))
	if !ok {
		return
	}
	approved, err := h.registry.IsApprovedForAll(c.Request.Context(), owner, operator)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.FlagResponse{Value: approved})
}
