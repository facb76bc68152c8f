package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httptypes "github.com/unicus/v1/internal/api/http/types"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
)

// HealthHandler 健康检查端点处理器
//
// 🏥 提供两层健康检查：
// - /health/live: 存活检查（进程是否响应）
// - /health: 就绪检查（注册表存储可读）
type HealthHandler struct {
	registry  registryif.TokenRegistry
	startTime time.Time
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(registry registryif.TokenRegistry) *HealthHandler {
	return &HealthHandler{registry: registry, startTime: time.Now()}
}

// RegisterRoutes 注册健康检查路由
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.GetHealth)
	r.GET("/health/live", h.GetLiveness)
}

// GetHealth 获取健康状态
//
// GET /health
//
// 读取一次总供应量以确认存储可用，失败时返回 503
func (h *HealthHandler) GetHealth(c *gin.Context) {
	resp := httptypes.HealthResponse{
		Status: "healthy",
		Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
	}

	supply, err := h.registry.TotalSupply(c.Request.Context())
	if err != nil {
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, &httptypes.SuccessResponse{Success: false, Data: resp})
		return
	}
	resp.TotalSupply = supply
	respond(c, http.StatusOK, resp)
}

// GetLiveness 存活检查
//
// GET /health/live
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
