package log

import (
	"context"
	"fmt"

	logconfig "github.com/unicus/v1/internal/config/log"
	"github.com/unicus/v1/pkg/interfaces/config"
	logInterface "github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ModuleParams 日志模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle `optional:"true"`
	Provider  config.Provider
}

// ModuleOutput 日志模块输出
type ModuleOutput struct {
	fx.Out

	Logger    logInterface.Logger
	ZapLogger *zap.Logger // 供 gin 中间件等需要原生 zap 的组件使用
}

// Module 返回日志模块
func Module() fx.Option {
	return fx.Module("log",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 按配置创建日志记录器并设为全局记录器
//
// 节点停止时最后关闭日志文件。
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger, err := New(logconfig.NewFromProvider(params.Provider))
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("根据用户配置创建日志记录器失败: %w", err)
	}
	root, ok := logger.(*Logger)
	if !ok {
		return ModuleOutput{}, fmt.Errorf("logger 类型断言失败，无法获取 *zap.Logger")
	}
	SetLogger(root)

	if params.Lifecycle != nil {
		params.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				// 标准输出不支持 fsync，这里忽略同步错误
				_ = root.Close()
				return nil
			},
		})
	}

	return ModuleOutput{
		Logger:    root,
		ZapLogger: root.zapLogger,
	}, nil
}

// NewModuleLogger 创建带 module 字段的 logger，module 决定写入哪个日志文件
func NewModuleLogger(base logInterface.Logger, module string) logInterface.Logger {
	if base == nil {
		return nil
	}
	return base.With(ModuleKey, module)
}
