// Package metrics 提供模块自报内存/缓存状态的接口定义
//
// 各模块实现 MemoryReporter 并通过 pkg/utils/metrics.RegisterMemoryReporter 注册，
// 指标采集器周期性收集后导出为 Prometheus 指标。
package metrics

import "time"

// ModuleMemoryStats 模块"自己认账"的逻辑内存状态
//
// 不追求绝对精确，关键是能反映内存使用的趋势和相对大小。
type ModuleMemoryStats struct {
	Module      string `json:"module"`       // 模块名称：registry / nftstorage / replay ...
	Objects     int64  `json:"objects"`      // 主要对象数：代币数量 / 对象数量 ...
	ApproxBytes int64  `json:"approx_bytes"` // 模块自己估算 bytes
	CacheItems  int64  `json:"cache_items"`  // 缓存条目
}

// MemoryReporter 每个核心模块需要实现的内存上报接口
type MemoryReporter interface {
	// ModuleName 返回模块名称
	ModuleName() string

	// CollectMemoryStats 收集当前模块的内存统计信息
	CollectMemoryStats() ModuleMemoryStats
}

// OperationRecorder 业务操作结果记录接口
//
// 注册表和上传服务在每次操作结束时调用，err 为 nil 表示成功。
// 实现方负责把 err 归类为有限的 result 标签，避免指标基数膨胀。
type OperationRecorder interface {
	ObserveOperation(op string, err error, duration time.Duration)
}
