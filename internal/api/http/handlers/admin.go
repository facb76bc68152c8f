package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httptypes "github.com/unicus/v1/internal/api/http/types"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
)

// defaultEventLimit 事件查询默认条数
const defaultEventLimit = 100

// RegistryHandlers 注册表全局状态、事件日志与管理接口
type RegistryHandlers struct {
	registry registryif.TokenRegistry
	logger   log.Logger
}

// NewRegistryHandlers 创建注册表接口处理器
func NewRegistryHandlers(registry registryif.TokenRegistry, logger log.Logger) *RegistryHandlers {
	return &RegistryHandlers{registry: registry, logger: logger}
}

// RegisterRoutes 注册注册表与管理路由
func (h *RegistryHandlers) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/registry", h.Info)
	r.GET("/events", h.Events)

	admin := r.Group("/admin")
	{
		admin.PUT("/creators/:address", h.SetCreator)
		admin.PUT("/fee", h.SetPublicFee)
		admin.POST("/withdraw", h.Withdraw)
	}
}

// Info 注册表全局状态
//
// GET /api/v1/registry
func (h *RegistryHandlers) Info(c *gin.Context) {
	ctx := c.Request.Context()
	info, err := h.registry.Info(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	creators, err := h.registry.ListCreators(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, &httptypes.RegistryResponse{
		TotalSupply:   info.TotalSupply,
		PublicFee:     httptypes.NewAmount(info.PublicFee),
		CollectedFees: httptypes.NewAmount(info.CollectedFees),
		Admin:         info.Admin,
		Creators:      creators,
	})
}

// Events 事件日志分页查询
//
// GET /api/v1/events?from=&limit=
func (h *RegistryHandlers) Events(c *gin.Context) {
	var q httptypes.EventsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalid(c, "invalid query: %v", err)
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultEventLimit
	}

	events, err := h.registry.Events(c.Request.Context(), q.From, q.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	next := q.From
	if len(events) > 0 {
		next = events[len(events)-1].Seq + 1
	}
	respond(c, http.StatusOK, &httptypes.EventPage{Events: events, NextFrom: next})
}

// SetCreator 增删创作者
//
// PUT /api/v1/admin/creators/:address
func (h *RegistryHandlers) SetCreator(c *gin.Context) {
	admin, ok := caller(c)
	if !ok {
		return
	}
	creator, ok := addressValue(c, "address", c.Param("address"))
	if !ok {
		return
	}
	var req httptypes.CreatorRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.registry.SetCreator(c.Request.Context(), admin, creator, req.Enabled); err != nil {
		fail(c, err)
		return
	}
	h.logger.Infof("创作者名单变更: creator=%s enabled=%v", creator.Hex(), req.Enabled)
	respond(c, http.StatusOK, httptypes.FlagResponse{Value: req.Enabled})
}

// SetPublicFee 调整铸造费
//
// PUT /api/v1/admin/fee
func (h *RegistryHandlers) SetPublicFee(c *gin.Context) {
	admin, ok := caller(c)
	if !ok {
		return
	}
	var req httptypes.FeeRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Fee == "" && req.FeeEther == "" {
		invalid(c, "fee or fee_ether is required")
		return
	}
	fee, ok := amountValue(c, "fee", req.Fee, req.FeeEther)
	if !ok {
		return
	}
	if err := h.registry.SetPublicFee(c.Request.Context(), admin, fee); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, httptypes.NewAmount(fee))
}

// Withdraw 提取已收取费用
//
// POST /api/v1/admin/withdraw
func (h *RegistryHandlers) Withdraw(c *gin.Context) {
	admin, ok := caller(c)
	if !ok {
		return
	}
	var req httptypes.WithdrawRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	to := admin
	if req.To != "" {
		if to, ok = addressValue(c, "to", req.To); !ok {
			return
		}
	}
	amount, err := h.registry.WithdrawFees(c.Request.Context(), admin, to)
	if err != nil {
		fail(c, err)
		return
	}
	h.logger.Infof("费用已提取: to=%s amount=%s", to.Hex(), amount.String())
	respond(c, http.StatusOK, httptypes.NewAmount(amount))
}
