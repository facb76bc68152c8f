package replay

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
)

var (
	_ Guard                  = (*MemoryGuard)(nil)
	_ metrics.MemoryReporter = (*MemoryGuard)(nil)
)

// MemoryGuard 基于 bigcache 的进程内防重放记录
//
// 值为过期时间（unix纳秒），读取时自行判断过期，
// 不依赖 bigcache 清理周期的精度。
type MemoryGuard struct {
	mu    sync.Mutex // bigcache 的 Get+Set 不是原子的
	cache *bigcache.BigCache
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryGuard 创建内存防重放记录
func NewMemoryGuard(ttl time.Duration) (*MemoryGuard, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("防重放TTL必须为正数: %s", ttl)
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 64
	cfg.MaxEntrySize = 16
	cfg.CleanWindow = ttl / 2
	if cfg.CleanWindow < time.Second {
		cfg.CleanWindow = time.Second
	}
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}
	return &MemoryGuard{cache: cache, ttl: ttl, now: time.Now}, nil
}

// Remember 实现 Guard
func (g *MemoryGuard) Remember(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	entry, err := g.cache.Get(id)
	switch {
	case err == nil && len(entry) == 8:
		if now.UnixNano() < int64(binary.BigEndian.Uint64(entry)) {
			return ErrReplayed
		}
	case err != nil && !errors.Is(err, bigcache.ErrEntryNotFound):
		return err
	}

	expiry := make([]byte, 8)
	binary.BigEndian.PutUint64(expiry, uint64(now.Add(g.ttl).UnixNano()))
	return g.cache.Set(id, expiry)
}

// Close 实现 Guard，停止 bigcache 清理协程
func (g *MemoryGuard) Close() error {
	return g.cache.Close()
}

// ModuleName 实现 MemoryReporter
func (g *MemoryGuard) ModuleName() string {
	return "replay"
}

// CollectMemoryStats 实现 MemoryReporter
func (g *MemoryGuard) CollectMemoryStats() metrics.ModuleMemoryStats {
	return metrics.ModuleMemoryStats{
		Module:      "replay",
		Objects:     int64(g.cache.Len()),
		ApproxBytes: int64(g.cache.Capacity()),
		CacheItems:  int64(g.cache.Len()),
	}
}
