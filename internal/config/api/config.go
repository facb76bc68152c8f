package api

import (
	"time"

	"github.com/unicus/v1/pkg/types"
)

// APIOptions API服务配置选项
// 整个API模块的统一配置入口
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`

	// 请求签名配置
	Signature SignatureConfig `json:"signature"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Enabled bool   `json:"enabled"` // 是否启用HTTP服务（总开关）
	Host    string `json:"host"`    // 监听地址
	Port    int    `json:"port"`    // 监听端口

	// 超时配置
	ReadTimeout  time.Duration `json:"read_timeout"`  // 读取超时时间
	WriteTimeout time.Duration `json:"write_timeout"` // 写入超时时间
	IdleTimeout  time.Duration `json:"idle_timeout"`  // 空闲连接超时

	// CORS配置
	CORSEnabled bool     `json:"cors_enabled"` // 是否启用CORS
	CORSOrigins []string `json:"cors_origins"` // 允许的CORS源

	// 限流和安全
	RateLimitReadPerSecond  int   `json:"rate_limit_read_per_second"`  // 每IP读请求QPS
	RateLimitWritePerSecond int   `json:"rate_limit_write_per_second"` // 每IP写请求QPS
	MaxRequestSize          int64 `json:"max_request_size"`            // 最大请求大小(字节)
}

// SignatureConfig 写请求签名校验配置
type SignatureConfig struct {
	Required bool          `json:"required"` // 写请求是否必须携带签名
	MaxSkew  time.Duration `json:"max_skew"` // 签名时间戳与服务器时间的最大偏差
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *types.UserAPIConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultAPIOptions()

	// 2. 如果有用户配置，则转换并覆盖默认配置
	if userConfig != nil {
		convertAndMergeUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Enabled:                 defaultHTTPEnabled,
			Host:                    defaultHTTPHost,
			Port:                    defaultHTTPPort,
			ReadTimeout:             defaultHTTPReadTimeout,
			WriteTimeout:            defaultHTTPWriteTimeout,
			IdleTimeout:             defaultHTTPIdleTimeout,
			CORSEnabled:             defaultCORSEnabled,
			CORSOrigins:             append([]string{}, defaultCORSOrigins...), // 复制切片
			RateLimitReadPerSecond:  defaultRateLimitReadPerSecond,
			RateLimitWritePerSecond: defaultRateLimitWritePerSecond,
			MaxRequestSize:          defaultMaxRequestSize,
		},
		Signature: SignatureConfig{
			Required: defaultSignatureRequired,
			MaxSkew:  defaultSignatureMaxSkew,
		},
	}
}

// convertAndMergeUserConfig 将用户配置转换并合并到默认配置中
// 使用指针类型来准确区分"未设置"和"设置为零值"
func convertAndMergeUserConfig(defaultOpts *APIOptions, userConfig *types.UserAPIConfig) {
	// === HTTP API配置 ===
	if userConfig.HTTPEnabled != nil {
		defaultOpts.HTTP.Enabled = *userConfig.HTTPEnabled
	}
	if userConfig.HTTPHost != nil && *userConfig.HTTPHost != "" {
		defaultOpts.HTTP.Host = *userConfig.HTTPHost
	}
	if userConfig.HTTPPort != nil {
		defaultOpts.HTTP.Port = *userConfig.HTTPPort
	}

	// === CORS配置 ===
	if userConfig.HTTPCorsEnabled != nil {
		defaultOpts.HTTP.CORSEnabled = *userConfig.HTTPCorsEnabled
	}
	if len(userConfig.HTTPCorsOrigins) > 0 {
		defaultOpts.HTTP.CORSOrigins = append([]string{}, userConfig.HTTPCorsOrigins...)
	}

	// === 限流 ===
	if userConfig.RateLimitReadPerSecond != nil && *userConfig.RateLimitReadPerSecond > 0 {
		defaultOpts.HTTP.RateLimitReadPerSecond = *userConfig.RateLimitReadPerSecond
	}
	if userConfig.RateLimitWritePerSecond != nil && *userConfig.RateLimitWritePerSecond > 0 {
		defaultOpts.HTTP.RateLimitWritePerSecond = *userConfig.RateLimitWritePerSecond
	}
	if userConfig.MaxRequestSize != nil && *userConfig.MaxRequestSize > 0 {
		defaultOpts.HTTP.MaxRequestSize = *userConfig.MaxRequestSize
	}

	// === 签名校验 ===
	if userConfig.RequireSignature != nil {
		defaultOpts.Signature.Required = *userConfig.RequireSignature
	}
	if userConfig.SignatureMaxSkew != nil {
		// 解析失败时保留默认值
		if d, err := time.ParseDuration(*userConfig.SignatureMaxSkew); err == nil && d > 0 {
			defaultOpts.Signature.MaxSkew = d
		}
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// IsHTTPEnabled 是否启用HTTP服务
func (c *Config) IsHTTPEnabled() bool {
	return c.options.HTTP.Enabled
}

// IsSignatureRequired 写请求是否必须签名
func (c *Config) IsSignatureRequired() bool {
	return c.options.Signature.Required
}
