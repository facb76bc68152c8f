package app

import (
	"github.com/unicus/v1/pkg/interfaces/config"
	"github.com/unicus/v1/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
// 实现config.AppOptions接口
type options struct {
	// 配置文件路径
	configFilePath string

	// 嵌入的配置内容（优先级高于configFilePath）
	embeddedConfig []byte

	// 用户配置
	appConfig *types.AppConfig

	// 命令行覆盖项，在配置文件解析之后应用
	httpPort *int
	dataDir  *string

	// API支持开关 (默认启用)
	enableAPI bool
}

// 编译时校验options是否实现了config.AppOptions接口
var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithEmbeddedConfig 设置嵌入的配置内容（优先级高于WithConfigFile）
func WithEmbeddedConfig(configBytes []byte) Option {
	return func(o *options) {
		o.embeddedConfig = configBytes
	}
}

// WithHTTPPort 覆盖配置文件中的HTTP监听端口
func WithHTTPPort(port int) Option {
	return func(o *options) {
		o.httpPort = &port
	}
}

// WithDataDir 覆盖配置文件中的数据根目录
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.dataDir = &dir
	}
}

// WithAPI 启用API模块
func WithAPI() Option {
	return func(o *options) {
		o.enableAPI = true
	}
}

// WithoutAPI 禁用API模块
// 主要用于测试：只装配注册表与存储，不监听端口
func WithoutAPI() Option {
	return func(o *options) {
		o.enableAPI = false
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{
		appConfig: &types.AppConfig{},
		enableAPI: true,
	}

	for _, opt := range opts {
		opt(options)
	}

	return options
}

// applyOverrides 将命令行覆盖项写入已解析的配置
func (o *options) applyOverrides() {
	if o.appConfig == nil {
		o.appConfig = &types.AppConfig{}
	}
	if o.httpPort != nil {
		if o.appConfig.API == nil {
			o.appConfig.API = &types.UserAPIConfig{}
		}
		port := *o.httpPort
		o.appConfig.API.HTTPPort = &port
	}
	if o.dataDir != nil && *o.dataDir != "" {
		if o.appConfig.Storage == nil {
			o.appConfig.Storage = &types.UserStorageConfig{}
		}
		dir := *o.dataDir
		o.appConfig.Storage.DataRoot = &dir
	}
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}
