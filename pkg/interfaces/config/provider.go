// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/unicus/v1/internal/config/api"
	eventconfig "github.com/unicus/v1/internal/config/event"
	logconfig "github.com/unicus/v1/internal/config/log"
	nftstorageconfig "github.com/unicus/v1/internal/config/nftstorage"
	registryconfig "github.com/unicus/v1/internal/config/registry"
	replayconfig "github.com/unicus/v1/internal/config/replay"
	badgerconfig "github.com/unicus/v1/internal/config/storage/badger"
	"github.com/unicus/v1/pkg/types"
)

// Provider 配置提供者接口
type Provider interface {
	// === 核心配置 ===

	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetEvent 获取事件配置
	GetEvent() *eventconfig.EventOptions

	// === 业务配置 ===

	// GetRegistry 获取代币注册表配置
	GetRegistry() *registryconfig.RegistryOptions

	// GetNFTStorage 获取元数据上传配置
	GetNFTStorage() *nftstorageconfig.NFTStorageOptions

	// GetReplay 获取签名防重放配置
	GetReplay() *replayconfig.ReplayOptions

	// === 存储引擎配置 ===

	// GetBadger 获取BadgerDB存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// === 环境配置 ===

	// GetEnvironment 获取运行环境
	// 返回运行环境字符串：dev | test | prod
	// 未配置时默认为 "prod"（安全优先）
	GetEnvironment() string

	// GetDataRoot 获取数据根目录
	GetDataRoot() string

	// === 原始配置访问 ===

	// GetAppConfig 获取原始应用配置（用于验证等场景）
	GetAppConfig() *types.AppConfig
}
