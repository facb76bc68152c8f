package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	replayconfig "github.com/unicus/v1/internal/config/replay"
)

// redisClient 防重放用到的 Redis 操作
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Close() error
}

// goRedisClient go-redis 客户端实现
type goRedisClient struct {
	client *redis.Client
}

var _ redisClient = (*goRedisClient)(nil)

// newGoRedisClient 创建并探测 go-redis 客户端
func newGoRedisClient(options *replayconfig.ReplayOptions) (redisClient, error) {
	if options.RedisAddr == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     options.RedisAddr,
		Password: options.RedisPassword,
		DB:       options.RedisDB,
		PoolSize: options.RedisPoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &goRedisClient{client: client}, nil
}

// SetNX 键不存在时写入
func (c *goRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, value, expiration).Result()
}

// Close 关闭连接池
func (c *goRedisClient) Close() error {
	return c.client.Close()
}

// redisGuard 多实例共享的防重放记录
type redisGuard struct {
	client redisClient
	prefix string
	ttl    time.Duration
}

var _ Guard = (*redisGuard)(nil)

func newRedisGuard(client redisClient, prefix string, ttl time.Duration) *redisGuard {
	return &redisGuard{client: client, prefix: prefix, ttl: ttl}
}

// Remember 实现 Guard，SET NX 保证多实例间的原子性
func (g *redisGuard) Remember(ctx context.Context, id string) error {
	ok, err := g.client.SetNX(ctx, g.prefix+id, 1, g.ttl)
	if err != nil {
		return fmt.Errorf("记录签名失败: %w", err)
	}
	if !ok {
		return ErrReplayed
	}
	return nil
}

// Close 实现 Guard
func (g *redisGuard) Close() error {
	return g.client.Close()
}
