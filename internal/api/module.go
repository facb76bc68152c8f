package api

import (
	"github.com/unicus/v1/internal/api/http"
	"go.uber.org/fx"
)

// Module 返回API模块选项，使其可以被fx框架注册
// 目前只包含 HTTP API：注册表读写、元数据上传、健康检查与指标
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),
	)
}
