package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	infralog "github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
)

// Logger 日志中间件
// 记录所有API请求的详细信息（复用系统统一日志接口）
type Logger struct {
	logger infralog.Logger
}

// NewLogger 创建日志中间件（使用统一日志接口）
func NewLogger(logger infralog.Logger) *Logger {
	return &Logger{logger: logger}
}

// Middleware 返回Gin中间件
func (m *Logger) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		zl := m.logger.GetZapLogger()
		if zl == nil {
			m.logger.Infof("HTTP request | id=%s method=%s path=%s status=%d latency=%s",
				GetRequestID(c), c.Request.Method, path, status, latency)
			return
		}

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if caller, ok := CallerFrom(c); ok {
			fields = append(fields, zap.String("caller", caller.Hex()))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			zl.Error("HTTP request", fields...)
		case status >= 400:
			zl.Warn("HTTP request", fields...)
		default:
			zl.Info("HTTP request", fields...)
		}
	}
}
