package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/event"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	metricsiface "github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ModuleOutput metrics 模块输出
type ModuleOutput struct {
	fx.Out

	Registry   *prometheus.Registry
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Business   *RegistryMetrics
	Recorder   metricsiface.OperationRecorder
}

// Module 返回 metrics 模块的 fx.Option
//
// 提供：
// - 独立的 prometheus.Registry（含 Go 运行时与进程采集器）
// - RegistryMetrics：业务指标，订阅注册表事件
// - MemoryDoctor：模块内存统计采样
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			ProvideServices,
			NewMemoryDoctorProvider,
		),
		fx.Invoke(SubscribeRegistryMetrics),
		fx.Invoke(StartMemoryDoctor),
	)
}

// ProvideServices 创建指标注册器与业务指标
func ProvideServices() ModuleOutput {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	business := NewRegistryMetrics(reg)
	return ModuleOutput{
		Registry:   reg,
		Registerer: reg,
		Gatherer:   reg,
		Business:   business,
		Recorder:   business,
	}
}

// MemoryDoctorProviderInput 定义 MemoryDoctor 的输入依赖
type MemoryDoctorProviderInput struct {
	fx.In

	Registerer prometheus.Registerer
	Logger     *zap.Logger `optional:"true"`
}

// NewMemoryDoctorProvider 创建 MemoryDoctor 实例
func NewMemoryDoctorProvider(input MemoryDoctorProviderInput) *MemoryDoctor {
	var logger *zap.Logger
	if input.Logger != nil {
		logger = input.Logger.With(zap.String("module", "metrics"))
	}
	return NewMemoryDoctor(DefaultMemoryDoctorConfig(), input.Registerer, logger)
}

// SubscribeInput 业务指标订阅的输入依赖
type SubscribeInput struct {
	fx.In

	EventBus event.EventBus
	Business *RegistryMetrics
	Logger   log.Logger
	Registry registryif.TokenRegistry `optional:"true"` // 用于启动时初始化总供应量
}

// SubscribeRegistryMetrics 把业务指标挂到事件总线上
func SubscribeRegistryMetrics(input SubscribeInput) error {
	if err := input.EventBus.Subscribe(event.TopicRegistry, input.Business.OnRegistryEvent); err != nil {
		return err
	}
	if err := input.EventBus.Subscribe(event.TopicMetadataUploaded, input.Business.OnUploaded); err != nil {
		return err
	}
	if input.Registry != nil {
		supply, err := input.Registry.TotalSupply(context.Background())
		if err != nil {
			return err
		}
		input.Business.SetTotalSupply(supply)
	}
	input.Logger.Debug("业务指标已订阅注册表事件")
	return nil
}

// StartMemoryDoctor 启动 MemoryDoctor 的生命周期管理
func StartMemoryDoctor(lifecycle fx.Lifecycle, memoryDoctor *MemoryDoctor) {
	// OnStart 的 ctx 在钩子返回后即失效，采样循环需要独立的 ctx
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lifecycle.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				memoryDoctor.SampleOnce()
				memoryDoctor.Start(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
