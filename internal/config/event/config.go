package event

import "github.com/unicus/v1/pkg/types"

// EventOptions 事件系统配置选项
type EventOptions struct {
	// === 基础配置 ===
	Enabled bool `json:"enabled"` // 是否启用事件系统

	// === 基础限制 ===
	MaxSubscribers int `json:"max_subscribers"` // 单主题最大订阅者数量
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置实现
func New(userConfig *types.UserEventConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultEventOptions()

	// 2. 应用用户配置
	if userConfig != nil && userConfig.Enabled != nil {
		defaultOptions.Enabled = *userConfig.Enabled
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 直接使用完整选项创建配置
func NewFromOptions(options *EventOptions) *Config {
	if options == nil {
		options = createDefaultEventOptions()
	}
	return &Config{options: options}
}

// createDefaultEventOptions 创建默认事件配置
func createDefaultEventOptions() *EventOptions {
	return &EventOptions{
		Enabled:        defaultEnabled,
		MaxSubscribers: defaultMaxSubscribers,
	}
}

// GetOptions 获取完整的事件配置选项
func (c *Config) GetOptions() *EventOptions {
	return c.options
}

// IsEnabled 是否启用事件系统
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetMaxSubscribers 获取最大订阅者数量
func (c *Config) GetMaxSubscribers() int {
	return c.options.MaxSubscribers
}
