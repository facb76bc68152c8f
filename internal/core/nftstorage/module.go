package nftstorage

import (
	"context"

	"go.uber.org/fx"

	infralog "github.com/unicus/v1/internal/core/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/config"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/event"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	metricsiface "github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
	nftstorageif "github.com/unicus/v1/pkg/interfaces/nftstorage"
	metricsutil "github.com/unicus/v1/pkg/utils/metrics"
)

// ModuleInput 定义上传模块的输入依赖
type ModuleInput struct {
	fx.In

	Provider    config.Provider
	Logger      log.Logger                     `optional:"true"`
	BadgerStore storage.BadgerStore            `optional:"true"` // badger 后端需要
	EventBus    event.EventBus                 `optional:"true"`
	Recorder    metricsiface.OperationRecorder `optional:"true"`
}

// ModuleOutput 定义上传模块的输出服务
type ModuleOutput struct {
	fx.Out

	Uploader nftstorageif.Uploader
}

// Module 返回元数据上传模块
func Module() fx.Option {
	return fx.Module("nftstorage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建上传服务并注册关闭钩子
func ProvideServices(lc fx.Lifecycle, input ModuleInput) (ModuleOutput, error) {
	var logger log.Logger
	if input.Logger != nil {
		logger = infralog.NewModuleLogger(input.Logger, "nftstorage")
	}

	options := input.Provider.GetNFTStorage()
	root, err := NewDatastore(options.Backend, input.BadgerStore)
	if err != nil {
		return ModuleOutput{}, err
	}

	service, err := NewService(root, options, input.EventBus, logger, input.Recorder)
	if err != nil {
		return ModuleOutput{}, err
	}
	metricsutil.RegisterMemoryReporter(service)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return service.Close()
		},
	})

	if logger != nil {
		logger.Infof("✅ 元数据上传模块已初始化: backend=%s max_image_size=%d", options.Backend, options.MaxImageSize)
	}
	return ModuleOutput{Uploader: service}, nil
}
