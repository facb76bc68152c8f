package replay

import (
	"context"

	"go.uber.org/fx"

	infralog "github.com/unicus/v1/internal/core/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/config"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	metricsutil "github.com/unicus/v1/pkg/utils/metrics"
)

// ModuleInput 防重放模块输入依赖
type ModuleInput struct {
	fx.In

	Provider config.Provider
	Logger   log.Logger `optional:"true"`
}

// Module 返回防重放模块
func Module() fx.Option {
	return fx.Module("replay",
		fx.Provide(ProvideGuard),
	)
}

// ProvideGuard 创建防重放记录并注册关闭钩子
func ProvideGuard(lc fx.Lifecycle, input ModuleInput) (Guard, error) {
	var logger log.Logger
	if input.Logger != nil {
		logger = infralog.NewModuleLogger(input.Logger, "replay")
	}

	guard, err := New(input.Provider.GetReplay(), logger)
	if err != nil {
		return nil, err
	}
	if reporter, ok := guard.(metrics.MemoryReporter); ok {
		metricsutil.RegisterMemoryReporter(reporter)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return guard.Close()
		},
	})
	return guard, nil
}
