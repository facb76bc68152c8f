// Package storage 打开注册表节点共用的 BadgerDB 实例
//
// 注册表账本、事件日志和 badger 后端的上传对象都写入同一个实例，
// 以键前缀区分。
package storage

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	badgerconfig "github.com/unicus/v1/internal/config/storage/badger"
	infralog "github.com/unicus/v1/internal/core/infrastructure/log"
	"github.com/unicus/v1/internal/core/infrastructure/storage/badger"
	"github.com/unicus/v1/pkg/interfaces/config"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
	metricsutil "github.com/unicus/v1/pkg/utils/metrics"
)

// ModuleParams 存储模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Provider  config.Provider
	Logger    log.Logger `optional:"true"`
}

// ModuleOutput 存储模块输出
type ModuleOutput struct {
	fx.Out

	BadgerStore storageInterface.BadgerStore
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 打开 BadgerDB 并在节点停止时关闭
//
// 存储在 fx 中先于注册表构造，因此停止时最后关闭。
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := params.Logger
	if logger != nil {
		logger = infralog.NewModuleLogger(logger, "storage")
	}

	cfg := badgerconfig.NewFromOptions(params.Provider.GetBadger())
	store, err := badger.New(cfg, logger)
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("存储初始化失败: %w", err)
	}
	metricsutil.RegisterMemoryReporter(store)

	if logger != nil {
		if cfg.IsInMemory() {
			logger.Info("📁 BadgerDB运行在内存模式，节点停止后数据丢失")
		} else {
			logger.Infof("📁 BadgerDB数据目录: %s", cfg.GetPath())
		}
	}

	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := store.Close(); err != nil {
				if logger != nil {
					logger.Errorf("关闭BadgerDB存储失败: %v", err)
				}
				return err
			}
			return nil
		},
	})

	return ModuleOutput{BadgerStore: store}, nil
}
