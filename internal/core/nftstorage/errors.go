package nftstorage

import (
	"errors"
	"strings"
)

// Error 上传服务业务错误
type Error struct {
	code string
	msg  string
}

// Error 实现error接口
func (e *Error) Error() string { return e.msg }

// ErrorCode 返回稳定的错误码
func (e *Error) ErrorCode() string { return e.code }

// 预定义错误
var (
	// ErrInvalidMetadata 元数据字段校验失败
	ErrInvalidMetadata = &Error{code: "UPLOAD_INVALID_METADATA", msg: "invalid watch metadata"}
	// ErrMissingExtension 文件名没有扩展名
	ErrMissingExtension = &Error{code: "UPLOAD_MISSING_EXTENSION", msg: "File extension not found"}
	// ErrEmptyImage 未提供图片
	ErrEmptyImage = &Error{code: "UPLOAD_EMPTY_IMAGE", msg: "image is empty"}
	// ErrImageTooLarge 图片超过大小限制
	ErrImageTooLarge = &Error{code: "UPLOAD_IMAGE_TOO_LARGE", msg: "image exceeds size limit"}
	// ErrNotImage 图片内容不是可识别的图片格式
	ErrNotImage = &Error{code: "UPLOAD_NOT_IMAGE", msg: "content is not an image"}
	// ErrInvalidImageEncoding 图片 base64 解码失败
	ErrInvalidImageEncoding = &Error{code: "UPLOAD_INVALID_ENCODING", msg: "image is not valid base64"}
	// ErrObjectNotFound 对象不存在
	ErrObjectNotFound = &Error{code: "UPLOAD_OBJECT_NOT_FOUND", msg: "object not found"}
	// ErrInvalidCID CID 或定位符格式错误
	ErrInvalidCID = &Error{code: "UPLOAD_INVALID_CID", msg: "invalid content identifier"}
)

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 元数据校验错误，包装 ErrInvalidMetadata
type ValidationError struct {
	Fields []FieldError
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrInvalidMetadata.msg + ": " + strings.Join(parts, "; ")
}

// Unwrap 支持 errors.Is(err, ErrInvalidMetadata)
func (e *ValidationError) Unwrap() error { return ErrInvalidMetadata }

// FieldErrors 提取校验错误中的字段详情
func FieldErrors(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
