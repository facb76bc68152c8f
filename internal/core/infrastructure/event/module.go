// Package event 提供进程内事件总线
package event

import (
	"context"

	"go.uber.org/fx"

	eventconfig "github.com/unicus/v1/internal/config/event"
	infralog "github.com/unicus/v1/internal/core/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/config"
	eventInterface "github.com/unicus/v1/pkg/interfaces/infrastructure/event"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	metricsutil "github.com/unicus/v1/pkg/utils/metrics"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Provider  config.Provider
	Logger    log.Logger   `optional:"true"`
	Lifecycle fx.Lifecycle `optional:"true"`
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建事件总线
func ProvideServices(input ModuleInput) ModuleOutput {
	cfg := eventconfig.NewFromOptions(input.Provider.GetEvent())

	var logger log.Logger
	if input.Logger != nil {
		logger = infralog.NewModuleLogger(input.Logger, "event")
	}

	bus := New(cfg, logger)
	metricsutil.RegisterMemoryReporter(bus)

	// 停止时等待异步处理器退出，避免访问已关闭的存储
	if input.Lifecycle != nil {
		input.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				bus.WaitAsync()
				return nil
			},
		})
	}

	if logger != nil {
		logger.Infof("事件总线已初始化: enabled=%v maxSubscribers=%d", cfg.IsEnabled(), cfg.GetMaxSubscribers())
	}
	return ModuleOutput{EventBus: bus}
}
