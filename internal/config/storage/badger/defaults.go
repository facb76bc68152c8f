package badger

import (
	"time"

	"github.com/unicus/v1/pkg/utils"
)

// BadgerDB存储默认配置值

// getDefaultPath 获取默认数据库路径
func getDefaultPath() string {
	return utils.ResolveDataPath("./data/badger")
}

const (
	// === 基础配置 ===

	// defaultInMemory 默认落盘
	defaultInMemory = false

	// defaultSyncWrites 默认启用同步写入
	// 注册表账本每次写入都要求持久化后再返回
	defaultSyncWrites = true

	// === 性能配置 ===

	// defaultMemTableSize 默认内存表大小为64MB
	defaultMemTableSize = 64 << 20 // 64MB

	// === 维护配置 ===

	// defaultEnableAutoCompaction 默认启用自动压缩
	defaultEnableAutoCompaction = true

	// defaultGCInterval 值日志回收周期
	// 注册表写入稀疏，回收不必频繁
	defaultGCInterval = 2 * time.Hour

	// defaultGCDiscardRatio 文件中至少一半可回收时才重写
	defaultGCDiscardRatio = 0.5

	// defaultDiskCheckInterval 磁盘空间检查周期
	defaultDiskCheckInterval = 6 * time.Hour

	// defaultDiskWarnPercent 磁盘使用率超过该值时告警
	defaultDiskWarnPercent = 85.0
)
