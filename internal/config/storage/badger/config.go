package badger

import (
	"path/filepath"
	"time"

	configtypes "github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils"
)

// BadgerOptions BadgerDB存储配置选项
type BadgerOptions struct {
	// === 基础配置 ===
	Path       string `json:"path"`        // 数据库存储路径
	InMemory   bool   `json:"in_memory"`   // 使用内存模式（不落盘，测试和演示用）
	SyncWrites bool   `json:"sync_writes"` // 是否同步写入（数据安全性）

	// === 基础性能配置 ===
	MemTableSize int64 `json:"mem_table_size"` // 内存表大小

	// === 维护配置 ===
	EnableAutoCompaction bool          `json:"enable_auto_compaction"` // 是否启用自动压缩
	GCInterval           time.Duration `json:"gc_interval"`            // 值日志回收周期
	GCDiscardRatio       float64       `json:"gc_discard_ratio"`       // 值日志文件可回收比例阈值
	DiskCheckInterval    time.Duration `json:"disk_check_interval"`    // 磁盘空间检查周期
	DiskWarnPercent      float64       `json:"disk_warn_percent"`      // 磁盘使用率告警阈值
}

// Config BadgerDB配置实现
type Config struct {
	options *BadgerOptions
}

// New 创建BadgerDB配置实现
// userConfig 可以是 *types.UserStorageConfig 或 *BadgerOptions
func New(userConfig interface{}) *Config {
	if opts, ok := userConfig.(*BadgerOptions); ok && opts != nil {
		return NewFromOptions(opts)
	}

	defaultOptions := createDefaultBadgerOptions()

	// 如果有用户配置，应用用户配置覆盖默认值
	if userConfig != nil {
		applyUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从BadgerOptions创建配置实现
func NewFromOptions(options *BadgerOptions) *Config {
	return &Config{
		options: options,
	}
}

// createDefaultBadgerOptions 创建默认BadgerDB配置
func createDefaultBadgerOptions() *BadgerOptions {
	return &BadgerOptions{
		Path:                 getDefaultPath(),
		InMemory:             defaultInMemory,
		SyncWrites:           defaultSyncWrites,
		MemTableSize:         defaultMemTableSize,
		EnableAutoCompaction: defaultEnableAutoCompaction,
		GCInterval:           defaultGCInterval,
		GCDiscardRatio:       defaultGCDiscardRatio,
		DiskCheckInterval:    defaultDiskCheckInterval,
		DiskWarnPercent:      defaultDiskWarnPercent,
	}
}

// applyUserConfig 应用用户配置覆盖默认值
//
// 路径构建规则：
// - 如果配置了 storage.data_root，使用 {data_root}/badger/
// - 如果未配置，使用默认值 ./data/badger/
func applyUserConfig(options *BadgerOptions, userConfig interface{}) {
	storageConfig, ok := userConfig.(*configtypes.UserStorageConfig)
	if !ok || storageConfig == nil {
		return
	}
	if storageConfig.DataRoot != nil && *storageConfig.DataRoot != "" {
		options.Path = utils.ResolveDataPath(filepath.Join(*storageConfig.DataRoot, "badger"))
	}
	if storageConfig.InMemory != nil {
		options.InMemory = *storageConfig.InMemory
	}
}

// GetOptions 获取完整的BadgerDB配置选项
func (c *Config) GetOptions() *BadgerOptions {
	return c.options
}

// === 基础配置访问方法 ===

// GetPath 获取数据库路径
func (c *Config) GetPath() string {
	return c.options.Path
}

// IsInMemory 是否使用内存模式
func (c *Config) IsInMemory() bool {
	return c.options.InMemory
}

// IsSyncWritesEnabled 是否启用同步写入
func (c *Config) IsSyncWritesEnabled() bool {
	return c.options.SyncWrites
}

// GetMemTableSize 获取内存表大小
func (c *Config) GetMemTableSize() int64 {
	return c.options.MemTableSize
}

// IsAutoCompactionEnabled 是否启用自动压缩
func (c *Config) IsAutoCompactionEnabled() bool {
	return c.options.EnableAutoCompaction
}

// GetGCInterval 获取值日志回收周期，未设置时使用默认值
func (c *Config) GetGCInterval() time.Duration {
	if c.options.GCInterval <= 0 {
		return defaultGCInterval
	}
	return c.options.GCInterval
}

// GetGCDiscardRatio 获取值日志回收阈值，取值范围 (0, 1)
func (c *Config) GetGCDiscardRatio() float64 {
	r := c.options.GCDiscardRatio
	if r <= 0 || r >= 1 {
		return defaultGCDiscardRatio
	}
	return r
}

// GetDiskCheckInterval 获取磁盘空间检查周期
func (c *Config) GetDiskCheckInterval() time.Duration {
	if c.options.DiskCheckInterval <= 0 {
		return defaultDiskCheckInterval
	}
	return c.options.DiskCheckInterval
}

// GetDiskWarnPercent 获取磁盘使用率告警阈值（百分比）
func (c *Config) GetDiskWarnPercent() float64 {
	p := c.options.DiskWarnPercent
	if p <= 0 || p > 100 {
		return defaultDiskWarnPercent
	}
	return p
}
