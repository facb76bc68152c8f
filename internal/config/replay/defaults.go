package replay

import "time"

const (
	// defaultBackend 默认使用进程内缓存
	defaultBackend = BackendMemory

	// defaultRedisAddr 默认Redis地址
	defaultRedisAddr = "127.0.0.1:6379"

	// defaultRedisDB 默认Redis库
	defaultRedisDB = 0

	// defaultRedisPoolSize 默认连接池大小
	defaultRedisPoolSize = 10

	// defaultKeyPrefix 默认Redis键前缀
	defaultKeyPrefix = "unicus:replay:"

	// defaultTTL 签名记录默认保留时间
	defaultTTL = 10 * time.Minute
)
