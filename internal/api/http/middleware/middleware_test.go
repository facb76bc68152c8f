package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestRateLimit_SweepsIdleClients 测试闲置限流器回收
func TestRateLimit_SweepsIdleClients(t *testing.T) {
	// Arrange
	now := time.Unix(1_700_000_000, 0)
	rl := NewRateLimit(10, 1)
	rl.now = func() time.Time { return now }

	// Act
	assert.True(t, rl.allow("1.1.1.1", true))
	assert.False(t, rl.allow("1.1.1.1", true), "写令牌桶容量为1，第二次应被拒绝")
	assert.True(t, rl.allow("1.1.1.1", false), "读写令牌桶相互独立")

	now = now.Add(2 * limiterIdleTTL)
	assert.True(t, rl.allow("2.2.2.2", false))

	// Assert
	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Len(t, rl.limiters, 1, "闲置客户端应该被回收")
	assert.Contains(t, rl.limiters, "2.2.2.2")
}

// TestIsWriteOperation 测试写操作判定
func TestIsWriteOperation(t *testing.T) {
	cases := map[string]bool{
		http.MethodGet:     false,
		http.MethodHead:    false,
		http.MethodOptions: false,
		http.MethodPost:    true,
		http.MethodPut:     true,
		http.MethodDelete:  true,
	}
	for method, want := range cases {
		assert.Equal(t, want, isWriteOperation(method), method)
	}
}

// TestContainsPrivateKey 测试私钥字段检测
func TestContainsPrivateKey(t *testing.T) {
	assert.True(t, containsPrivateKey([]byte(`{"privateKey":"0x01"}`)))
	assert.True(t, containsPrivateKey([]byte(`{"uri":"a","mnemonic":"x y z"}`)))
	assert.False(t, containsPrivateKey([]byte(`{"uri":"a"}`)))
	assert.False(t, containsPrivateKey([]byte(`not json`)), "非JSON请求体不做检测")
}

// TestCORS_Preflight 测试跨域预检
func TestCORS_Preflight(t *testing.T) {
	// Arrange
	r := gin.New()
	r.Use(CORS([]string{"https://unicus.example"}))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Act
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://unicus.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	denied := httptest.NewRequest(http.MethodOptions, "/x", nil)
	denied.Header.Set("Origin", "https://evil.example")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, denied)

	// Assert
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://unicus.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Unicus-Signature")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Unicus-Nonce")
	assert.Empty(t, w2.Header().Get("Access-Control-Allow-Origin"), "未允许的来源不应返回CORS头")
}

// TestRequestID_GeneratesWhenMissingOrTooLong 测试请求ID生成
func TestRequestID_GeneratesWhenMissingOrTooLong(t *testing.T) {
	r := gin.New()
	r.Use(NewRequestID().Middleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Body.String(), 36, "应生成UUID")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("a", maxRequestIDLength+1))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Body.String(), 36, "超长请求ID应被替换")
}
