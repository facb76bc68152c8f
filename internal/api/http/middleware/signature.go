package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	apitypes "github.com/unicus/v1/internal/api/types"
	apiconfig "github.com/unicus/v1/internal/config/api"
	"github.com/unicus/v1/internal/core/infrastructure/crypto/signature"
	"github.com/unicus/v1/internal/core/replay"
	"github.com/unicus/v1/pkg/utils/timeutil"
	"go.uber.org/zap"
)

const contextKeyCaller = "caller"

// privateKeyFields 请求体中不允许出现的字段
var privateKeyFields = []string{
	"private_key",
	"privateKey",
	"privKey",
	"priv_key",
	"secret_key",
	"secretKey",
	"mnemonic",
}

// SignatureValidation 签名验证中间件
// 🔐 写请求必须由调用者私钥签名，服务端恢复签名者作为调用者身份
type SignatureValidation struct {
	logger *zap.Logger
	config apiconfig.SignatureConfig
	guard  replay.Guard
	now    func() time.Time
}

// NewSignatureValidation 创建签名验证中间件
func NewSignatureValidation(logger *zap.Logger, config apiconfig.SignatureConfig, guard replay.Guard) *SignatureValidation {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignatureValidation{
		logger: logger,
		config: config,
		guard:  guard,
		now:    timeutil.Now,
	}
}

// Middleware 返回Gin中间件
// 🔐 校验顺序：
// - 拒绝包含私钥的请求
// - 校验声明地址
// - 校验时间戳偏差和签名者
// - 防重放：签名覆盖 nonce，失败的请求换新 nonce 后可重新提交
func (m *SignatureValidation) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWriteOperation(c.Request.Method) {
			c.Next()
			return
		}

		body, err := readBody(c)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				abortWithProblem(c, tooLarge(maxErr.Limit))
				return
			}
			abortWithProblem(c, apitypes.Validation("invalid request body", nil))
			return
		}

		if containsPrivateKey(body) {
			m.logger.Warn("Request contains private key field - REJECTED",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()))
			abortWithProblem(c, authProblem(apitypes.CodeAuthPrivateKeyInBody,
				"不接受私钥，请在客户端签名后提交", http.StatusForbidden))
			return
		}

		claimed := c.GetHeader(signature.HeaderAddress)
		if !common.IsHexAddress(claimed) {
			abortWithProblem(c, authProblem(apitypes.CodeAuthMissingAddress,
				"缺少或无效的调用者地址", http.StatusUnauthorized))
			return
		}
		caller := common.HexToAddress(claimed)

		if !m.config.Required {
			c.Set(contextKeyCaller, caller)
			c.Next()
			return
		}

		sigHex := c.GetHeader(signature.HeaderSignature)
		tsHeader := c.GetHeader(signature.HeaderTimestamp)
		nonce := c.GetHeader(signature.HeaderNonce)
		if sigHex == "" || tsHeader == "" || nonce == "" {
			abortWithProblem(c, authProblem(apitypes.CodeAuthMissingSignature,
				"写请求必须携带签名", http.StatusUnauthorized))
			return
		}

		if len(nonce) > signature.MaxNonceLength {
			abortWithProblem(c, authProblem(apitypes.CodeAuthInvalidSignature,
				"nonce 过长", http.StatusUnauthorized))
			return
		}

		ts, err := strconv.ParseInt(tsHeader, 10, 64)
		if err != nil || !m.withinSkew(ts) {
			abortWithProblem(c, authProblem(apitypes.CodeAuthTimestampSkew,
				"签名时间戳无效或已过期", http.StatusUnauthorized))
			return
		}

		if err := signature.VerifyRequest(caller, c.Request.Method, c.Request.URL.Path, ts, nonce, body, sigHex); err != nil {
			m.logger.Warn("Signature verification failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()))
			abortWithProblem(c, authProblem(apitypes.CodeAuthInvalidSignature,
				"签名校验失败", http.StatusUnauthorized))
			return
		}

		if m.guard != nil {
			if err := m.guard.Remember(c.Request.Context(), signature.SignatureID(sigHex)); err != nil {
				if errors.Is(err, replay.ErrReplayed) {
					abortWithProblem(c, authProblem(apitypes.CodeAuthReplayed,
						"签名已被使用", http.StatusUnauthorized))
					return
				}
				m.logger.Error("Replay guard unavailable", zap.Error(err))
				abortWithProblem(c, apitypes.NewProblemDetails(apitypes.CodeCommonServiceUnavailable,
					apitypes.LayerAPI, "服务暂不可用", "replay guard unavailable", http.StatusServiceUnavailable, nil))
				return
			}
		}

		c.Set(contextKeyCaller, caller)
		c.Next()
	}
}

// withinSkew 时间戳是否在允许偏差内
func (m *SignatureValidation) withinSkew(ts int64) bool {
	diff := m.now().Sub(time.Unix(ts, 0))
	if diff < 0 {
		diff = -diff
	}
	return diff <= m.config.MaxSkew
}

// CallerFrom 获取经过校验的调用者地址
func CallerFrom(c *gin.Context) (common.Address, bool) {
	v, ok := c.Get(contextKeyCaller)
	if !ok {
		return common.Address{}, false
	}
	addr, ok := v.(common.Address)
	return addr, ok
}

// readBody 读取请求体并放回，供后续 handler 再次读取
func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// containsPrivateKey 检查请求体是否包含私钥字段
func containsPrivateKey(body []byte) bool {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return false
	}
	for _, field := range privateKeyFields {
		if _, exists := data[field]; exists {
			return true
		}
	}
	return false
}

func authProblem(code, userMessage string, status int) *apitypes.ProblemDetails {
	return apitypes.NewProblemDetails(code, apitypes.LayerAPI, userMessage, code, status, nil)
}
