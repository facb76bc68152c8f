package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	apitypes "github.com/unicus/v1/internal/api/types"
	"golang.org/x/time/rate"
)

// limiterIdleTTL 客户端限流器闲置多久后回收
const limiterIdleTTL = 10 * time.Minute

// RateLimit 按IP限流中间件
// - 读操作宽松限流
// - 写操作（铸造、转移、管理）严格限流
type RateLimit struct {
	mu         sync.Mutex
	limiters   map[string]*clientLimiter
	readLimit  int // 读操作QPS限制
	writeLimit int // 写操作QPS限制
	lastSweep  time.Time
	now        func() time.Time
}

// clientLimiter 单个客户端的读写令牌桶
type clientLimiter struct {
	read     *rate.Limiter
	write    *rate.Limiter
	lastSeen time.Time
}

// NewRateLimit 创建限流中间件
func NewRateLimit(readLimit, writeLimit int) *RateLimit {
	return &RateLimit{
		limiters:   make(map[string]*clientLimiter),
		readLimit:  readLimit,
		writeLimit: writeLimit,
		now:        time.Now,
	}
}

// Middleware 返回Gin中间件
func (m *RateLimit) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		write := isWriteOperation(c.Request.Method)

		if !m.allow(c.ClientIP(), write) {
			limit := m.readLimit
			if write {
				limit = m.writeLimit
			}
			c.Header("Retry-After", "1")
			abortWithProblem(c, apitypes.NewProblemDetails(
				apitypes.CodeCommonRateLimited,
				apitypes.LayerAPI,
				"请求过于频繁，请稍后重试",
				"request rate limit exceeded",
				http.StatusTooManyRequests,
				map[string]interface{}{"limit": limit, "write": write},
			))
			return
		}

		c.Next()
	}
}

// allow 检查是否允许请求
func (m *RateLimit) allow(clientID string, write bool) bool {
	now := m.now()

	m.mu.Lock()
	m.sweep(now)
	cl, ok := m.limiters[clientID]
	if !ok {
		cl = &clientLimiter{
			read:  rate.NewLimiter(rate.Limit(m.readLimit), m.readLimit),
			write: rate.NewLimiter(rate.Limit(m.writeLimit), m.writeLimit),
		}
		m.limiters[clientID] = cl
	}
	cl.lastSeen = now
	m.mu.Unlock()

	if write {
		return cl.write.AllowN(now, 1)
	}
	return cl.read.AllowN(now, 1)
}

// sweep 回收闲置的客户端限流器，调用方持有锁
func (m *RateLimit) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < limiterIdleTTL {
		return
	}
	m.lastSweep = now
	for id, cl := range m.limiters {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(m.limiters, id)
		}
	}
}

// isWriteOperation 判断是否为写操作
func isWriteOperation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
