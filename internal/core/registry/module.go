package registry

import (
	"go.uber.org/fx"

	registryconfig "github.com/unicus/v1/internal/config/registry"
	infralog "github.com/unicus/v1/internal/core/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/event"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	metricsiface "github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
	metricsutil "github.com/unicus/v1/pkg/utils/metrics"
)

// ============================================================================
//                              模块输入依赖
// ============================================================================

// ModuleInput 定义注册表模块的输入依赖
type ModuleInput struct {
	fx.In

	// ========== 基础设施组件 ==========
	Logger log.Logger `optional:"true"` // 日志记录器

	// ========== 存储组件 ==========
	BadgerStore storage.BadgerStore // 账本存储

	// ========== 事件总线 ==========
	EventBus event.EventBus `optional:"true"` // 提交后广播注册表事件

	// ========== 配置 ==========
	Options *registryconfig.RegistryOptions // 创世配置与缓存大小

	// ========== 指标 ==========
	Recorder metricsiface.OperationRecorder `optional:"true"` // 操作结果计数
}

// ============================================================================
//                              模块输出服务
// ============================================================================

// ModuleOutput 定义注册表模块的输出服务
type ModuleOutput struct {
	fx.Out

	TokenRegistry registryif.TokenRegistry
	CreatorSet    registryif.CreatorSet
}

// Module 返回注册表模块
func Module() fx.Option {
	return fx.Module("registry",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供注册表模块的所有服务
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	// 🎯 为注册表模块添加 module 字段，日志写入 registry.log
	var registryLogger log.Logger
	if input.Logger != nil {
		registryLogger = infralog.NewModuleLogger(input.Logger, "registry")
	}

	service, err := NewService(input.BadgerStore, input.EventBus, registryLogger, input.Options)
	if err != nil {
		return ModuleOutput{}, err
	}
	if input.Recorder != nil {
		service.SetOperationRecorder(input.Recorder)
	}

	// 📊 注册内存上报
	metricsutil.RegisterMemoryReporter(service)

	if registryLogger != nil {
		registryLogger.Info("✅ 代币注册表模块已初始化")
	}

	return ModuleOutput{
		TokenRegistry: service,
		CreatorSet:    service,
	}, nil
}
