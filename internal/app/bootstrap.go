package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"

	"github.com/unicus/v1/internal/api"
	apihttp "github.com/unicus/v1/internal/api/http"
	config "github.com/unicus/v1/internal/config"
	"github.com/unicus/v1/internal/core/infrastructure/event"
	log "github.com/unicus/v1/internal/core/infrastructure/log"
	"github.com/unicus/v1/internal/core/infrastructure/metrics"
	"github.com/unicus/v1/internal/core/infrastructure/storage"
	"github.com/unicus/v1/internal/core/nftstorage"
	"github.com/unicus/v1/internal/core/registry"
	"github.com/unicus/v1/internal/core/replay"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
)

// Framework layers
const (
	// 基础设施层
	LayerInfrastructure = "infrastructure"
	// 通信与数据层
	LayerCommunication = "communication"
	// 业务逻辑层
	LayerBusiness = "business"
	// 应用层
	LayerApplication = "application"
)

// startTimeout 应用启动超时
const startTimeout = 120 * time.Second

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App

	// 启动后由 fx.Populate 填充
	registry registryif.TokenRegistry
	server   *apihttp.Server
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{
		opts: opts,
	}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	return []fx.Option{
		config.Module(),  // 1. 配置(不依赖其他)
		log.Module(),     // 2. 日志(依赖配置)
		metrics.Module(), // 3. 指标(依赖日志)
	}
}

// SetupCommunicationLayer 设置通信与数据层模块
func (b *Bootstrap) SetupCommunicationLayer() []fx.Option {
	return []fx.Option{
		event.Module(),   // 事件总线(依赖基础设施)
		storage.Module(), // BadgerDB存储(依赖基础设施)
	}
}

// SetupBusinessLayer 设置业务逻辑层模块
// 加载顺序遵循依赖关系：防重放 -> 注册表 -> 元数据上传
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		replay.Module(),     // 1. 签名防重放缓存
		registry.Module(),   // 2. 代币注册表(依赖存储、事件、指标)
		nftstorage.Module(), // 3. 元数据上传(依赖存储、事件、指标)
		fx.Populate(&b.registry),
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	modules := []fx.Option{
		appModule(b.opts),
	}

	if b.opts.enableAPI {
		modules = append(modules,
			api.Module(),
			fx.Populate(&b.server),
		)
		fmt.Println("🌐 API模块已启用")
	} else {
		fmt.Println("⚠️  API模块已禁用")
	}

	return modules
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupCommunicationLayer()...)
	allModules = append(allModules, b.SetupBusinessLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)
	return allModules
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	if err := loadAppConfig(b.opts); err != nil {
		return err
	}

	b.fxApp = fx.New(
		fx.Options(b.SetupModules()...),
		// 禁用fx内部日志，由各模块自行记录
		fx.NopLogger,
	)
	if err := b.fxApp.Err(); err != nil {
		return fmt.Errorf("依赖装配失败: %w", err)
	}
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	fmt.Println("正在启动应用...")

	if err := b.fxApp.Start(ctx); err != nil {
		fmt.Printf("启动失败: %v\n", err)
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	fmt.Println("正在停止应用...")

	if err := b.fxApp.Stop(ctx); err != nil {
		fmt.Printf("停止失败: %v\n", err)
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// BootstrapApp 执行完整的引导过程并返回应用实例
func BootstrapApp(options ...Option) (App, error) {
	opts := newOptions(options...)
	bootstrap := NewBootstrap(opts)

	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), startTimeout)
	defer startupCancel()

	if err := bootstrap.StartApp(startupCtx); err != nil {
		return nil, err
	}

	return &internalApp{bootstrap: bootstrap}, nil
}
