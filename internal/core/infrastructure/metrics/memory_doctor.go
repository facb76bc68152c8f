// Package metrics 提供节点的 Prometheus 指标
//
// MemoryDoctor 周期性采样运行时内存与各模块自报的统计，导出为 Gauge；
// RegistryMetrics 记录注册表操作结果与事件计数。
package metrics

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	metricsiface "github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	metricsutil "github.com/unicus/v1/pkg/utils/metrics"
	"go.uber.org/zap"
)

// MemoryDoctorConfig MemoryDoctor 配置
type MemoryDoctorConfig struct {
	// SampleInterval 采样间隔
	SampleInterval time.Duration

	// WindowSize 保留最近 N 次样本
	WindowSize int

	// GoroutineWarnThreshold Goroutine 数量告警阈值
	GoroutineWarnThreshold int
}

// DefaultMemoryDoctorConfig 返回默认配置
func DefaultMemoryDoctorConfig() MemoryDoctorConfig {
	return MemoryDoctorConfig{
		SampleInterval:         15 * time.Second,
		WindowSize:             20,
		GoroutineWarnThreshold: 2000,
	}
}

// HeapSample 一次采样结果
type HeapSample struct {
	Time         time.Time                        `json:"time"`
	HeapAlloc    uint64                           `json:"heap_alloc"`
	HeapInuse    uint64                           `json:"heap_inuse"`
	NumGC        uint32                           `json:"num_gc"`
	NumGoroutine int                              `json:"num_goroutine"`
	Modules      []metricsiface.ModuleMemoryStats `json:"modules"`
}

// MemoryDoctor 内存监控组件
type MemoryDoctor struct {
	cfg     MemoryDoctorConfig
	logger  *zap.Logger
	history []HeapSample
	mu      sync.RWMutex

	moduleObjects *prometheus.GaugeVec
	moduleBytes   *prometheus.GaugeVec
	moduleCache   *prometheus.GaugeVec
}

// NewMemoryDoctor 创建 MemoryDoctor，模块指标注册到 reg
func NewMemoryDoctor(cfg MemoryDoctorConfig, reg prometheus.Registerer, logger *zap.Logger) *MemoryDoctor {
	if cfg.SampleInterval <= 0 {
		cfg.SampleInterval = DefaultMemoryDoctorConfig().SampleInterval
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = DefaultMemoryDoctorConfig().WindowSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)
	return &MemoryDoctor{
		cfg:    cfg,
		logger: logger,
		moduleObjects: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "unicus",
			Subsystem: "module",
			Name:      "objects",
			Help:      "Main object count reported by each module",
		}, []string{"module"}),
		moduleBytes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "unicus",
			Subsystem: "module",
			Name:      "approx_bytes",
			Help:      "Approximate bytes reported by each module",
		}, []string{"module"}),
		moduleCache: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "unicus",
			Subsystem: "module",
			Name:      "cache_items",
			Help:      "Cache entries reported by each module",
		}, []string{"module"}),
	}
}

// Start 定时采样直到 ctx 取消
func (d *MemoryDoctor) Start(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.SampleInterval)
	defer ticker.Stop()

	d.logger.Info("MemoryDoctor 启动", zap.Duration("sample_interval", d.cfg.SampleInterval))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("MemoryDoctor 停止")
			return
		case <-ticker.C:
			d.SampleOnce()
		}
	}
}

// SampleOnce 执行一次采样
func (d *MemoryDoctor) SampleOnce() HeapSample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	s := HeapSample{
		Time:         time.Now(),
		HeapAlloc:    ms.HeapAlloc,
		HeapInuse:    ms.HeapInuse,
		NumGC:        ms.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
		Modules:      metricsutil.CollectAllModuleStats(),
	}

	for _, m := range s.Modules {
		d.moduleObjects.WithLabelValues(m.Module).Set(float64(m.Objects))
		d.moduleBytes.WithLabelValues(m.Module).Set(float64(m.ApproxBytes))
		d.moduleCache.WithLabelValues(m.Module).Set(float64(m.CacheItems))
	}

	d.mu.Lock()
	d.history = append(d.history, s)
	if len(d.history) > d.cfg.WindowSize {
		d.history = d.history[len(d.history)-d.cfg.WindowSize:]
	}
	d.mu.Unlock()

	if s.NumGoroutine > d.cfg.GoroutineWarnThreshold {
		d.logger.Warn("Goroutine 数量过高",
			zap.Int("count", s.NumGoroutine),
			zap.Int("threshold", d.cfg.GoroutineWarnThreshold))
	}
	d.logger.Debug("内存采样完成",
		zap.Uint64("heap_alloc_mb", s.HeapAlloc/1024/1024),
		zap.Int("goroutines", s.NumGoroutine),
		zap.Any("top_modules", topModules(s.Modules, 3)))
	return s
}

// GetHistory 返回最近的采样（按时间升序）
func (d *MemoryDoctor) GetHistory() []HeapSample {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]HeapSample, len(d.history))
	copy(out, d.history)
	return out
}

// topModules 按 ApproxBytes 取前 n 个模块
func topModules(modules []metricsiface.ModuleMemoryStats, n int) []metricsiface.ModuleMemoryStats {
	sorted := make([]metricsiface.ModuleMemoryStats, len(modules))
	copy(sorted, modules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ApproxBytes > sorted[j].ApproxBytes })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
