// Package metrics 提供全局的内存上报器注册和收集工具
//
// 各模块在 fx 模块中构造完主要服务后调用 RegisterMemoryReporter，
// 指标采集器通过 CollectAllModuleStats 周期性汇总。
package metrics

import (
	"sync"

	"github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
)

var (
	// mu 保护 reporters 切片的读写锁
	mu sync.RWMutex

	// reporters 全局注册的内存上报器列表（单机进程全局）
	reporters []metrics.MemoryReporter
)

// RegisterMemoryReporter 注册一个内存上报器
// 如果 r 为 nil，则忽略
func RegisterMemoryReporter(r metrics.MemoryReporter) {
	if r == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	reporters = append(reporters, r)
}

// CollectAllModuleStats 收集所有已注册模块的内存统计信息
//
// 返回的切片顺序与注册顺序一致；
// 某个模块的 CollectMemoryStats() 发生 panic 时跳过该模块。
func CollectAllModuleStats() []metrics.ModuleMemoryStats {
	mu.RLock()
	defer mu.RUnlock()

	stats := make([]metrics.ModuleMemoryStats, 0, len(reporters))
	for _, r := range reporters {
		func() {
			defer func() {
				_ = recover()
			}()
			stats = append(stats, r.CollectMemoryStats())
		}()
	}

	return stats
}

// GetRegisteredReportersCount 返回已注册的上报器数量
func GetRegisteredReportersCount() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(reporters)
}

// ClearAllMemoryReporters 清空所有已注册的上报器（主要用于测试）
func ClearAllMemoryReporters() {
	mu.Lock()
	defer mu.Unlock()
	reporters = nil
}
