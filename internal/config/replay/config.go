package replay

import (
	"time"

	"github.com/unicus/v1/pkg/types"
)

// 防重放缓存后端
const (
	BackendMemory = "memory" // 进程内 bigcache
	BackendRedis  = "redis"  // 多实例共享的 Redis
)

// ReplayOptions 签名防重放配置选项
type ReplayOptions struct {
	Backend       string        `json:"backend"`         // memory | redis
	RedisAddr     string        `json:"redis_addr"`      // Redis地址
	RedisPassword string        `json:"-"`               // Redis密码
	RedisDB       int           `json:"redis_db"`        // Redis库编号
	RedisPoolSize int           `json:"redis_pool_size"` // 连接池大小
	KeyPrefix     string        `json:"key_prefix"`      // Redis键前缀
	TTL           time.Duration `json:"ttl"`             // 签名记录保留时间，由签名时间偏差决定
}

// Config 防重放配置实现
type Config struct {
	options *ReplayOptions
}

// New 创建防重放配置实现
// ttl 为签名时间偏差窗口，超过该窗口的签名会被时间戳检查拒绝，无需继续记录
func New(userConfig *types.UserReplayConfig, ttl time.Duration) *Config {
	options := &ReplayOptions{
		Backend:       defaultBackend,
		RedisAddr:     defaultRedisAddr,
		RedisDB:       defaultRedisDB,
		RedisPoolSize: defaultRedisPoolSize,
		KeyPrefix:     defaultKeyPrefix,
		TTL:           defaultTTL,
	}
	if ttl > 0 {
		// 时间戳允许前后偏差，签名在 2*skew 内都可能通过时间检查
		options.TTL = 2 * ttl
	}

	if userConfig != nil {
		if userConfig.Backend != nil {
			switch *userConfig.Backend {
			case BackendMemory, BackendRedis:
				options.Backend = *userConfig.Backend
			}
		}
		if userConfig.RedisAddr != nil && *userConfig.RedisAddr != "" {
			options.RedisAddr = *userConfig.RedisAddr
		}
		if userConfig.RedisPassword != nil {
			options.RedisPassword = *userConfig.RedisPassword
		}
		if userConfig.RedisDB != nil {
			options.RedisDB = *userConfig.RedisDB
		}
		if userConfig.KeyPrefix != nil && *userConfig.KeyPrefix != "" {
			options.KeyPrefix = *userConfig.KeyPrefix
		}
	}

	return &Config{options: options}
}

// GetOptions 获取完整的防重放配置选项
func (c *Config) GetOptions() *ReplayOptions {
	return c.options
}
