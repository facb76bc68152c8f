package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/unicus/v1/internal/core/nftstorage"
	"github.com/unicus/v1/internal/core/registry"
)

// ProblemDetails Unicus Problem Details 结构（基于 RFC7807 + 扩展字段）
type ProblemDetails struct {
	// RFC7807 标准字段
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// 扩展字段（必填）
	Code        string                 `json:"code"`
	Layer       string                 `json:"layer"`
	UserMessage string                 `json:"userMessage"`
	Details     map[string]interface{} `json:"details,omitempty"`
	TraceID     string                 `json:"traceId"`
	Timestamp   string                 `json:"timestamp"`
}

// Error 实现 error 接口
func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.UserMessage
}

// WriteJSON 将 Problem Details 写入 HTTP 响应
func (p *ProblemDetails) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// NewProblemDetails 创建新的 Problem Details
func NewProblemDetails(
	code string,
	layer string,
	userMessage string,
	detail string,
	status int,
	details map[string]interface{},
) *ProblemDetails {
	if details == nil {
		details = make(map[string]interface{})
	}

	return &ProblemDetails{
		Title:       http.StatusText(status),
		Code:        code,
		Layer:       layer,
		UserMessage: userMessage,
		Detail:      detail,
		Status:      status,
		Details:     details,
		TraceID:     uuid.New().String(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// IsProblemDetails 检查错误是否为 Problem Details
func IsProblemDetails(err error) (*ProblemDetails, bool) {
	var pd *ProblemDetails
	if errors.As(err, &pd) {
		return pd, true
	}
	return nil, false
}

// 通用错误码
const (
	CodeCommonValidationError    = "COMMON_VALIDATION_ERROR"
	CodeCommonInternalError      = "COMMON_INTERNAL_ERROR"
	CodeCommonNotFound           = "COMMON_NOT_FOUND"
	CodeCommonRateLimited        = "COMMON_RATE_LIMITED"
	CodeCommonPayloadTooLarge    = "COMMON_PAYLOAD_TOO_LARGE"
	CodeCommonServiceUnavailable = "COMMON_SERVICE_UNAVAILABLE"
)

// 身份校验错误码
const (
	CodeAuthMissingSignature = "AUTH_MISSING_SIGNATURE"
	CodeAuthInvalidSignature = "AUTH_INVALID_SIGNATURE"
	CodeAuthTimestampSkew    = "AUTH_TIMESTAMP_SKEW"
	CodeAuthReplayed         = "AUTH_REPLAYED"
	CodeAuthPrivateKeyInBody = "AUTH_PRIVATE_KEY_FORBIDDEN"
	CodeAuthMissingAddress   = "AUTH_MISSING_ADDRESS"
)

// Layer 常量
const (
	LayerAPI        = "api"
	LayerRegistry   = "registry"
	LayerNFTStorage = "nftstorage"
)

// FromError 将领域错误转换为 Problem Details
//
// 注册表错误按类别映射状态码：授权 403、支付 402、不存在 404、转移锁定 409、参数 400；
// 上传错误：元数据/图片 400、对象不存在 404、图片过大 413。
// 其余错误统一视为 500，不向调用方暴露内部细节。
func FromError(err error) *ProblemDetails {
	if pd, ok := IsProblemDetails(err); ok {
		return pd
	}

	if code, ok := registry.CodeOf(err); ok {
		return NewProblemDetails(code, LayerRegistry, err.Error(), err.Error(), registryStatus(registry.KindOf(err)), nil)
	}

	var upErr *nftstorage.Error
	if errors.As(err, &upErr) {
		details := map[string]interface{}{}
		if fields := nftstorage.FieldErrors(err); len(fields) > 0 {
			details["fields"] = fields
		}
		return NewProblemDetails(upErr.ErrorCode(), LayerNFTStorage, upErr.Error(), err.Error(), uploadStatus(upErr), details)
	}

	return NewProblemDetails(
		CodeCommonInternalError,
		LayerAPI,
		"服务器内部错误，请稍后重试或联系管理员。",
		"internal error",
		http.StatusInternalServerError,
		nil,
	)
}

// Validation 创建请求参数校验失败的 Problem Details
func Validation(detail string, details map[string]interface{}) *ProblemDetails {
	return NewProblemDetails(CodeCommonValidationError, LayerAPI, "请求参数无效", detail, http.StatusBadRequest, details)
}

func registryStatus(kind registry.Kind) int {
	switch kind {
	case registry.KindAuthorization:
		return http.StatusForbidden
	case registry.KindPayment:
		return http.StatusPaymentRequired
	case registry.KindNotFound:
		return http.StatusNotFound
	case registry.KindTransferRestricted:
		return http.StatusConflict
	case registry.KindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func uploadStatus(err *nftstorage.Error) int {
	switch err {
	case nftstorage.ErrObjectNotFound:
		return http.StatusNotFound
	case nftstorage.ErrImageTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}
