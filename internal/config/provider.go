package config

import (
	"path/filepath"
	"strings"

	"github.com/unicus/v1/internal/config/api"
	"github.com/unicus/v1/internal/config/event"
	"github.com/unicus/v1/internal/config/log"
	"github.com/unicus/v1/internal/config/nftstorage"
	"github.com/unicus/v1/internal/config/registry"
	"github.com/unicus/v1/internal/config/replay"
	"github.com/unicus/v1/internal/config/storage/badger"
	"github.com/unicus/v1/pkg/interfaces/config"
	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils"
)

// 运行环境
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvProd = "prod"
)

// defaultDataRoot 未配置 storage.data_root 时的数据根目录
const defaultDataRoot = "./data"

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	return &Provider{
		appConfig: appConfig,
	}
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	options := api.New(p.appConfig.API).GetOptions()

	// 开发环境下未显式配置签名开关时，默认信任请求头中的地址
	if p.GetEnvironment() == EnvDev && (p.appConfig.API == nil || p.appConfig.API.RequireSignature == nil) {
		options.Signature.Required = false
	}
	return options
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	options := log.New(p.appConfig.Log).GetOptions()

	// 日志级别未配置时按环境选择
	if p.appConfig.Log == nil || p.appConfig.Log.Level == nil {
		if p.GetEnvironment() == EnvDev {
			options.Level = string(types.DebugLevel)
		}
	}
	return options
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *event.EventOptions {
	return event.New(p.appConfig.Event).GetOptions()
}

// GetRegistry 获取代币注册表配置
// 配置格式错误时 panic（fail-fast），启动前应先调用 ValidateMandatoryConfig
func (p *Provider) GetRegistry() *registry.RegistryOptions {
	cfg, err := registry.New(p.appConfig.Registry)
	if err != nil {
		panic(err)
	}
	return cfg.GetOptions()
}

// GetNFTStorage 获取元数据上传配置
func (p *Provider) GetNFTStorage() *nftstorage.NFTStorageOptions {
	return nftstorage.New(p.appConfig.NFTStorage).GetOptions()
}

// GetReplay 获取签名防重放配置
func (p *Provider) GetReplay() *replay.ReplayOptions {
	return replay.New(p.appConfig.Replay, p.GetAPI().Signature.MaxSkew).GetOptions()
}

// === 存储引擎配置方法 ===

// GetBadger 获取BadgerDB存储配置
func (p *Provider) GetBadger() *badger.BadgerOptions {
	storage := p.appConfig.Storage
	if storage == nil || storage.DataRoot == nil {
		// 统一使用数据根目录，保证 badger 与日志位于同一位置
		root := p.GetDataRoot()
		merged := &types.UserStorageConfig{DataRoot: &root}
		if storage != nil {
			merged.InMemory = storage.InMemory
		}
		storage = merged
	}
	return badger.New(storage).GetOptions()
}

// === 环境配置 ===

// GetEnvironment 获取运行环境
// 未配置或无效值时默认为 "prod"（安全优先）
func (p *Provider) GetEnvironment() string {
	if p.appConfig.Environment == nil {
		return EnvProd
	}
	switch env := strings.ToLower(strings.TrimSpace(*p.appConfig.Environment)); env {
	case EnvDev, EnvTest, EnvProd:
		return env
	default:
		return EnvProd
	}
}

// GetDataRoot 获取数据根目录（绝对路径）
// 优先级：storage.data_root > data_dir > ./data
func (p *Provider) GetDataRoot() string {
	root := defaultDataRoot
	if p.appConfig.DataDir != nil && *p.appConfig.DataDir != "" {
		root = *p.appConfig.DataDir
	}
	if p.appConfig.Storage != nil && p.appConfig.Storage.DataRoot != nil && *p.appConfig.Storage.DataRoot != "" {
		root = *p.appConfig.Storage.DataRoot
	}
	return utils.ResolveDataPath(filepath.Clean(root))
}

// === 原始配置访问 ===

// GetAppConfig 获取原始应用配置
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}
