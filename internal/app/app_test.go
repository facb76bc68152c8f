package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicus/v1/configs"
)

var testCreator = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

// freePort 获取一个当前空闲的本地端口
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// TestBootstrapApp_WithoutAPI 测试完整装配（不启动HTTP）
func TestBootstrapApp_WithoutAPI(t *testing.T) {
	// Arrange & Act
	a, err := BootstrapApp(
		WithEmbeddedConfig(configs.GetTestingConfig()),
		WithoutAPI(),
	)
	require.NoError(t, err, "应用应该启动成功")
	defer func() { assert.NoError(t, a.Stop()) }()

	// Assert
	reg := a.Registry()
	require.NotNil(t, reg, "注册表应被装配")
	assert.Empty(t, a.HTTPAddr(), "未启用API时不应监听端口")

	ctx := context.Background()
	isCreator, err := reg.IsCreator(ctx, testCreator)
	require.NoError(t, err)
	assert.True(t, isCreator, "配置中的创作者应在创世时写入")

	id, err := reg.Mint(ctx, testCreator, "ipfs://bafy/metadata.json", nil)
	require.NoError(t, err)
	uri, err := reg.TokenURI(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://bafy/metadata.json", uri)
}

// TestBootstrapApp_WithAPI 测试HTTP服务随应用启动
func TestBootstrapApp_WithAPI(t *testing.T) {
	port := freePort(t)

	a, err := BootstrapApp(
		WithEmbeddedConfig(configs.GetTestingConfig()),
		WithHTTPPort(port),
		WithAPI(),
	)
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Stop()) }()

	require.Equal(t, fmt.Sprintf("127.0.0.1:%d", port), a.HTTPAddr(), "端口覆盖应生效")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + a.HTTPAddr() + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestBootstrapApp_InvalidConfig 测试缺少管理员时拒绝启动
func TestBootstrapApp_InvalidConfig(t *testing.T) {
	_, err := BootstrapApp(
		WithEmbeddedConfig([]byte(`{"environment":"test","storage":{"in_memory":true}}`)),
		WithoutAPI(),
	)
	assert.Error(t, err, "缺少 registry.admin 时应启动失败")
}

// TestLoadAppConfig_Sources 测试配置来源优先级与覆盖项
func TestLoadAppConfig_Sources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"app_name":"from-file","api":{"http_port":9000}}`), 0o644))

	t.Run("显式文件与覆盖项", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "")
		opts := newOptions(WithConfigFile(path), WithHTTPPort(9100), WithDataDir(filepath.Join(dir, "data")))
		require.NoError(t, loadAppConfig(opts))

		cfg := opts.GetAppConfig()
		assert.Equal(t, "from-file", *cfg.AppName)
		assert.Equal(t, 9100, *cfg.API.HTTPPort, "命令行端口应覆盖文件")
		assert.DirExists(t, filepath.Join(dir, "data"), "数据目录应被创建")
	})

	t.Run("环境变量优先", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, filepath.Join(dir, "missing.json"))
		opts := newOptions(WithConfigFile(path))
		assert.Error(t, loadAppConfig(opts), "环境变量指向的文件不存在时应报错")
	})

	t.Run("嵌入配置优先于文件", func(t *testing.T) {
		opts := newOptions(WithConfigFile(path), WithEmbeddedConfig([]byte(`{"app_name":"embedded"}`)))
		require.NoError(t, loadAppConfig(opts))
		assert.Equal(t, "embedded", *opts.GetAppConfig().AppName)
	})

	t.Run("格式错误", func(t *testing.T) {
		opts := newOptions(WithEmbeddedConfig([]byte(`{`)))
		assert.Error(t, loadAppConfig(opts))
	})
}
