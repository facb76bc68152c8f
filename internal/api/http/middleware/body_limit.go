package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apitypes "github.com/unicus/v1/internal/api/types"
)

// BodyLimit 请求体大小限制中间件
// 声明长度超限的请求直接拒绝；未声明长度的请求由 MaxBytesReader 截断读取
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			abortWithProblem(c, tooLarge(maxBytes))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func tooLarge(maxBytes int64) *apitypes.ProblemDetails {
	return apitypes.NewProblemDetails(
		apitypes.CodeCommonPayloadTooLarge,
		apitypes.LayerAPI,
		"请求体过大",
		"request body too large",
		http.StatusRequestEntityTooLarge,
		map[string]interface{}{"max_bytes": maxBytes},
	)
}
