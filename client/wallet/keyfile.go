// Package wallet manages the secp256k1 key used to sign node requests.
package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyEnv 以十六进制提供私钥的环境变量，优先级低于 --key 文件
const KeyEnv = "UNICUS_PRIVATE_KEY"

// Account 本地账户
type Account struct {
	Address common.Address `json:"address"`
	KeyFile string         `json:"keyFile,omitempty"`
}

// NewKeyFile 生成新私钥并写入文件（十六进制，权限 0600）
// 文件已存在时返回错误，不覆盖已有私钥
func NewKeyFile(path string) (*Account, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("密钥文件已存在: %s", path)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("创建密钥目录失败: %w", err)
		}
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("生成私钥失败: %w", err)
	}
	if err := crypto.SaveECDSA(path, key); err != nil {
		return nil, fmt.Errorf("写入密钥文件失败: %w", err)
	}
	return &Account{Address: crypto.PubkeyToAddress(key.PublicKey), KeyFile: path}, nil
}

// LoadKey 按 文件 > 环境变量 的顺序加载私钥
// 两者都未提供时返回 nil，调用方只能执行读操作
func LoadKey(path string) (*ecdsa.PrivateKey, error) {
	if path != "" {
		key, err := crypto.LoadECDSA(path)
		if err != nil {
			return nil, fmt.Errorf("读取密钥文件失败 %s: %w", path, err)
		}
		return key, nil
	}

	if raw := strings.TrimSpace(os.Getenv(KeyEnv)); raw != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return nil, fmt.Errorf("环境变量 %s 中的私钥无效: %w", KeyEnv, err)
		}
		return key, nil
	}
	return nil, nil
}
