package http

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	apiconfig "github.com/unicus/v1/internal/config/api"
	infralog "github.com/unicus/v1/internal/core/infrastructure/log"
	"github.com/unicus/v1/internal/core/replay"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	nftstorageif "github.com/unicus/v1/pkg/interfaces/nftstorage"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
	"go.uber.org/fx"
)

// ServerInput HTTP服务器的输入依赖
type ServerInput struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Options    *apiconfig.APIOptions
	Logger     log.Logger
	Registry   registryif.TokenRegistry
	Uploader   nftstorageif.Uploader
	Guard      replay.Guard `optional:"true"`
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// initializeGinMode 在模块加载时初始化GIN模式
// gin 自带的调试输出由统一日志中间件替代
func initializeGinMode() {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
}

// ProvideServer 创建HTTP服务器并注册生命周期钩子
func ProvideServer(input ServerInput) (*Server, error) {
	logger := infralog.NewModuleLogger(input.Logger, "api")

	router, err := NewRouter(RouterDeps{
		Options:    input.Options,
		Logger:     logger,
		Registry:   input.Registry,
		Uploader:   input.Uploader,
		Guard:      input.Guard,
		Registerer: input.Registerer,
		Gatherer:   input.Gatherer,
	})
	if err != nil {
		return nil, err
	}

	if !input.Options.Signature.Required {
		logger.Warn("⚠️ 写请求签名校验已关闭，调用者地址请求头将被直接信任，仅限开发环境使用")
	}

	server := NewServer(router, input.Options, logger)
	input.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server, nil
}

// Module 返回HTTP服务模块
func Module() fx.Option {
	return fx.Options(
		fx.Invoke(initializeGinMode),
		fx.Provide(ProvideServer),
		// 确保HTTP服务器被实例化并随应用启动
		fx.Invoke(func(*Server) {}),
	)
}
