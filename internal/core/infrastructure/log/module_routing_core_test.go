package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestRouteCore_RoutesByModuleField(t *testing.T) {
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{MessageKey: "message", LevelKey: "level"})

	var nodeBuf, auditBuf bytes.Buffer
	core := &routeCore{
		cores: map[string]zapcore.Core{
			"node.log":     zapcore.NewCore(enc, zapcore.AddSync(&nodeBuf), zapcore.InfoLevel),
			"registry.log": zapcore.NewCore(enc, zapcore.AddSync(&auditBuf), zapcore.InfoLevel),
		},
		routes:   map[string]string{"registry": "registry.log", "nftstorage": "registry.log"},
		fallback: "node.log",
		level:    zapcore.InfoLevel,
	}
	entry := zapcore.Entry{Message: "hello", Level: zapcore.InfoLevel}
	moduleField := func(name string) []zapcore.Field {
		return []zapcore.Field{{Key: ModuleKey, Type: zapcore.StringType, String: name}}
	}

	require.NoError(t, core.Write(entry, moduleField("nftstorage")))
	assert.NotZero(t, auditBuf.Len(), "上传模块应写入审计日志")
	assert.Zero(t, nodeBuf.Len())
	auditBuf.Reset()

	require.NoError(t, core.Write(entry, moduleField("storage")))
	assert.NotZero(t, nodeBuf.Len(), "未登记模块应写入节点日志")
	assert.Zero(t, auditBuf.Len())
	nodeBuf.Reset()

	require.NoError(t, core.Write(entry, nil))
	assert.NotZero(t, nodeBuf.Len(), "缺少 module 字段时应写入节点日志")

	bound := core.With(moduleField("registry"))
	require.NoError(t, bound.Write(entry, nil))
	assert.NotZero(t, auditBuf.Len(), "With 绑定的 module 应参与路由")

	assert.False(t, core.Enabled(zapcore.DebugLevel))
}
