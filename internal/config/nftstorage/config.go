package nftstorage

import (
	"github.com/unicus/v1/pkg/types"
)

// 对象存储后端
const (
	BackendBadger = "badger" // 与注册表共用 BadgerDB，数据持久化
	BackendMemory = "memory" // 进程内 map 数据存储，重启后丢失
)

// NFTStorageOptions 元数据上传配置选项
type NFTStorageOptions struct {
	Backend      string `json:"backend"`        // 对象存储后端：badger | memory
	MaxImageSize int64  `json:"max_image_size"` // 图片最大字节数
}

// Config 元数据上传配置实现
type Config struct {
	options *NFTStorageOptions
}

// New 创建元数据上传配置实现
func New(userConfig *types.UserNFTStorageConfig) *Config {
	options := &NFTStorageOptions{
		Backend:      defaultBackend,
		MaxImageSize: defaultMaxImageSize,
	}

	if userConfig != nil {
		if userConfig.Backend != nil {
			switch *userConfig.Backend {
			case BackendBadger, BackendMemory:
				options.Backend = *userConfig.Backend
			}
		}
		if userConfig.MaxImageSize != nil && *userConfig.MaxImageSize > 0 {
			options.MaxImageSize = *userConfig.MaxImageSize
		}
	}

	return &Config{options: options}
}

// GetOptions 获取完整的元数据上传配置选项
func (c *Config) GetOptions() *NFTStorageOptions {
	return c.options
}
