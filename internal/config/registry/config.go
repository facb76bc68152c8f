package registry

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils"
)

// RegistryOptions 代币注册表配置选项
//
// Creators 与 PublicFee 只用于账本首次初始化（创世），
// 之后以账本中的值为准，由管理员接口修改。
type RegistryOptions struct {
	Admin     common.Address   `json:"admin"`      // 管理员地址
	Creators  []common.Address `json:"creators"`   // 初始创作者名单
	PublicFee *big.Int         `json:"public_fee"` // 非创作者铸造费（wei）
	CacheSize int              `json:"cache_size"` // 代币记录读缓存条目数
}

// Config 注册表配置实现
type Config struct {
	options *RegistryOptions
}

// New 创建注册表配置实现
// 用户配置中的地址或金额格式错误时返回错误（fail-fast）
func New(userConfig *types.UserRegistryConfig) (*Config, error) {
	// 1. 先创建完整的默认配置
	options, err := createDefaultRegistryOptions()
	if err != nil {
		return nil, err
	}

	// 2. 应用用户配置
	if userConfig != nil {
		if err := applyUserConfig(options, userConfig); err != nil {
			return nil, err
		}
	}

	return &Config{options: options}, nil
}

// createDefaultRegistryOptions 创建默认注册表配置
func createDefaultRegistryOptions() (*RegistryOptions, error) {
	fee, err := utils.ParseEtherToWei(defaultPublicFeeEther)
	if err != nil {
		return nil, fmt.Errorf("默认铸造费无效: %w", err)
	}
	return &RegistryOptions{
		Admin:     common.Address{},
		Creators:  nil,
		PublicFee: fee,
		CacheSize: defaultCacheSize,
	}, nil
}

// applyUserConfig 应用用户配置覆盖默认值
func applyUserConfig(options *RegistryOptions, userConfig *types.UserRegistryConfig) error {
	if userConfig.Admin != nil && *userConfig.Admin != "" {
		addr, err := ParseAddress(*userConfig.Admin)
		if err != nil {
			return fmt.Errorf("registry.admin 无效: %w", err)
		}
		options.Admin = addr
	}

	if len(userConfig.Creators) > 0 {
		creators := make([]common.Address, 0, len(userConfig.Creators))
		for i, raw := range userConfig.Creators {
			addr, err := ParseAddress(raw)
			if err != nil {
				return fmt.Errorf("registry.creators[%d] 无效: %w", i, err)
			}
			creators = append(creators, addr)
		}
		options.Creators = creators
	}

	if userConfig.PublicFee != nil {
		fee, err := utils.ParseEtherToWei(*userConfig.PublicFee)
		if err != nil {
			return fmt.Errorf("registry.public_fee 无效: %w", err)
		}
		options.PublicFee = fee
	}

	if userConfig.CacheSize != nil && *userConfig.CacheSize > 0 {
		options.CacheSize = *userConfig.CacheSize
	}
	return nil
}

// ParseAddress 解析 0x 前缀的十六进制地址
func ParseAddress(raw string) (common.Address, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("地址格式无效: %q", raw)
	}
	return common.HexToAddress(raw), nil
}

// GetOptions 获取完整的注册表配置选项
func (c *Config) GetOptions() *RegistryOptions {
	return c.options
}
