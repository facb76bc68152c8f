// Package replay 提供签名请求的防重放记录
//
// 每个已接受的签名以其哈希为键记录一段时间（签名时间戳偏差窗口的两倍），
// 窗口内再次出现同一签名即判定为重放。超出窗口的旧签名由时间戳检查拒绝。
package replay

import (
	"context"
	"errors"
	"fmt"

	replayconfig "github.com/unicus/v1/internal/config/replay"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
)

// ErrReplayed 签名已被使用过
var ErrReplayed = errors.New("signature already used")

// Guard 防重放记录
type Guard interface {
	// Remember 原子地记录签名ID；窗口内已存在时返回 ErrReplayed
	Remember(ctx context.Context, id string) error
	// Close 释放后台资源
	Close() error
}

// New 按配置的后端创建防重放记录
func New(options *replayconfig.ReplayOptions, logger log.Logger) (Guard, error) {
	if options == nil {
		options = replayconfig.New(nil, 0).GetOptions()
	}
	switch options.Backend {
	case replayconfig.BackendRedis:
		client, err := newGoRedisClient(options)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Infof("防重放记录使用Redis: addr=%s ttl=%s", options.RedisAddr, options.TTL)
		}
		return newRedisGuard(client, options.KeyPrefix, options.TTL), nil
	case replayconfig.BackendMemory, "":
		if logger != nil {
			logger.Infof("防重放记录使用内存缓存: ttl=%s", options.TTL)
		}
		return NewMemoryGuard(options.TTL)
	default:
		return nil, fmt.Errorf("未知的防重放后端: %s", options.Backend)
	}
}
