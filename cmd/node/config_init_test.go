package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unicus/v1/pkg/types"
)

// TestRenderConfigTemplate_SetsAdmin 测试模板写入管理员地址
func TestRenderConfigTemplate_SetsAdmin(t *testing.T) {
	// Act
	data, err := renderConfigTemplate("prod", "0x90f79bf6eb2c4f870365e785982e1f101e93b906")

	// Assert
	require.NoError(t, err)
	var cfg types.AppConfig
	require.NoError(t, json.Unmarshal(data, &cfg))
	require.NotNil(t, cfg.Registry)
	assert.Equal(t, "0x90F79bf6EB2c4f870365E785982E1f101E93b906", *cfg.Registry.Admin, "地址应转为校验和格式")
	assert.Equal(t, "prod", *cfg.Environment)
}

// TestRenderConfigTemplate_Rejects 测试无效参数
func TestRenderConfigTemplate_Rejects(t *testing.T) {
	_, err := renderConfigTemplate("staging", "0x90F79bf6EB2c4f870365E785982E1f101E93b906")
	assert.Error(t, err, "未知环境应报错")

	_, err = renderConfigTemplate("prod", "not-an-address")
	assert.Error(t, err, "无效管理员地址应报错")
}
