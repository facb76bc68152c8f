package middleware

import (
	"github.com/gin-gonic/gin"
	apitypes "github.com/unicus/v1/internal/api/types"
	"go.uber.org/zap"
)

// ErrorHandler 错误处理中间件
// handler 通过 c.Error(err) 上报错误，由此处统一转换为 Problem Details
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		problem := apitypes.FromError(err)
		problem.Instance = c.Request.URL.Path

		if problem.Status >= 500 {
			logger.Error("HTTP error",
				zap.String("code", problem.Code),
				zap.String("traceId", problem.TraceID),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		} else {
			logger.Debug("HTTP request rejected",
				zap.String("code", problem.Code),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}

		WriteProblemDetails(c, problem)
	}
}

// WriteProblemDetails 写入 Problem Details 响应
func WriteProblemDetails(c *gin.Context, problem *apitypes.ProblemDetails) {
	c.Header("Content-Type", "application/problem+json")
	c.JSON(problem.Status, problem)
}

// abortWithProblem 中止请求并写入 Problem Details
func abortWithProblem(c *gin.Context, problem *apitypes.ProblemDetails) {
	problem.Instance = c.Request.URL.Path
	WriteProblemDetails(c, problem)
	c.Abort()
}
