package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicus/v1/pkg/types"
)

const testAdmin = "0x00000000000000000000000000000000000000a1"

// TestGetEnvironment 测试 GetEnvironment() 方法
func TestGetEnvironment(t *testing.T) {
	t.Run("显式配置 dev", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{Environment: types.StringPtr("dev")})
		assert.Equal(t, "dev", provider.GetEnvironment())
	})

	t.Run("大小写与空白被规范化", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{Environment: types.StringPtr(" Test ")})
		assert.Equal(t, "test", provider.GetEnvironment())
	})

	t.Run("未配置时默认为 prod（安全优先）", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{})
		assert.Equal(t, "prod", provider.GetEnvironment(), "未配置时应默认为 prod（安全优先）")
	})

	t.Run("无效值默认为 prod", func(t *testing.T) {
		provider := NewProvider(&types.AppConfig{Environment: types.StringPtr("invalid")})
		assert.Equal(t, "prod", provider.GetEnvironment(), "无效值时应默认为 prod（安全优先）")
	})

	t.Run("nil 配置", func(t *testing.T) {
		provider := NewProvider(nil)
		assert.Equal(t, "prod", provider.GetEnvironment())
		assert.NotNil(t, provider.GetAppConfig())
	})
}

// TestGetAPI_SignatureDefaultsByEnvironment 测试签名开关的环境默认值
func TestGetAPI_SignatureDefaultsByEnvironment(t *testing.T) {
	dev := NewProvider(&types.AppConfig{Environment: types.StringPtr("dev")})
	assert.False(t, dev.GetAPI().Signature.Required, "dev 环境默认不要求签名")

	prod := NewProvider(&types.AppConfig{})
	assert.True(t, prod.GetAPI().Signature.Required, "prod 环境默认要求签名")

	explicit := NewProvider(&types.AppConfig{
		Environment: types.StringPtr("dev"),
		API:         &types.UserAPIConfig{RequireSignature: types.BoolPtr(true)},
	})
	assert.True(t, explicit.GetAPI().Signature.Required, "显式配置优先于环境默认值")
}

// TestGetBadger_UsesDataRoot 测试BadgerDB路径跟随数据根目录
func TestGetBadger_UsesDataRoot(t *testing.T) {
	root := t.TempDir()

	provider := NewProvider(&types.AppConfig{DataDir: types.StringPtr(root)})
	assert.Equal(t, root, provider.GetDataRoot())
	assert.Equal(t, filepath.Join(root, "badger"), provider.GetBadger().Path)

	storageRoot := t.TempDir()
	provider = NewProvider(&types.AppConfig{
		DataDir: types.StringPtr(root),
		Storage: &types.UserStorageConfig{DataRoot: types.StringPtr(storageRoot)},
	})
	assert.Equal(t, filepath.Join(storageRoot, "badger"), provider.GetBadger().Path, "storage.data_root 优先")
}

// TestGetReplay_TTLFollowsSignatureSkew 测试防重放TTL
func TestGetReplay_TTLFollowsSignatureSkew(t *testing.T) {
	provider := NewProvider(&types.AppConfig{
		API: &types.UserAPIConfig{SignatureMaxSkew: types.StringPtr("30s")},
	})
	assert.Equal(t, time.Minute, provider.GetReplay().TTL)
	assert.Equal(t, "memory", provider.GetReplay().Backend)
}

// TestGetRegistry 测试注册表配置
func TestGetRegistry(t *testing.T) {
	provider := NewProvider(&types.AppConfig{
		Registry: &types.UserRegistryConfig{
			Admin:     types.StringPtr(testAdmin),
			PublicFee: types.StringPtr("0.5"),
		},
	})
	opts := provider.GetRegistry()
	assert.Equal(t, "500000000000000000", opts.PublicFee.String())

	bad := NewProvider(&types.AppConfig{Registry: &types.UserRegistryConfig{Admin: types.StringPtr("zz")}})
	assert.Panics(t, func() { bad.GetRegistry() }, "格式错误应 fail-fast")
}

// TestValidateMandatoryConfig 测试必填配置校验
func TestValidateMandatoryConfig(t *testing.T) {
	t.Run("缺少管理员", func(t *testing.T) {
		err := ValidateMandatoryConfig(&types.AppConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registry.admin")
	})

	t.Run("汇总多个错误", func(t *testing.T) {
		err := ValidateMandatoryConfig(&types.AppConfig{
			Registry: &types.UserRegistryConfig{
				Admin:     types.StringPtr(testAdmin),
				Creators:  []string{"bad"},
				PublicFee: types.StringPtr("x"),
			},
			API:    &types.UserAPIConfig{HTTPPort: types.IntPtr(70000)},
			Replay: &types.UserReplayConfig{Backend: types.StringPtr("etcd")},
		})
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "registry.creators[0]")
		assert.Contains(t, msg, "registry.public_fee")
		assert.Contains(t, msg, "api.http_port")
		assert.Contains(t, msg, "replay.backend")
	})

	t.Run("合法配置", func(t *testing.T) {
		err := ValidateMandatoryConfig(&types.AppConfig{
			Registry: &types.UserRegistryConfig{Admin: types.StringPtr(testAdmin)},
		})
		assert.NoError(t, err)
	})
}
