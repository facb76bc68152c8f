package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/unicus/v1/internal/config/registry"
	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils"
)

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置验证失败 [%s]: %s", e.Field, e.Message)
}

// ValidateMandatoryConfig 验证必填配置项
//
// 📋 **必填配置项**：
// - registry.admin: 管理员地址（必需，管理操作的唯一授权方）
//
// 同时校验已填写字段的格式：创作者地址、铸造费、签名时间偏差、端口。
// 所有问题一次性返回（errors.Join）。
func ValidateMandatoryConfig(appConfig *types.AppConfig) error {
	var errs []error

	if appConfig == nil {
		return &ValidationError{Field: "config", Message: "配置不能为空"}
	}

	// 1. 注册表配置
	reg := appConfig.Registry
	if reg == nil || reg.Admin == nil || *reg.Admin == "" {
		errs = append(errs, &ValidationError{
			Field:   "registry.admin",
			Message: "管理员地址不能为空，必须配置 0x 前缀的十六进制地址",
		})
	} else if _, err := registry.ParseAddress(*reg.Admin); err != nil {
		errs = append(errs, &ValidationError{Field: "registry.admin", Message: err.Error()})
	}

	if reg != nil {
		for i, raw := range reg.Creators {
			if _, err := registry.ParseAddress(raw); err != nil {
				errs = append(errs, &ValidationError{
					Field:   fmt.Sprintf("registry.creators[%d]", i),
					Message: err.Error(),
				})
			}
		}
		if reg.PublicFee != nil {
			if _, err := utils.ParseEtherToWei(*reg.PublicFee); err != nil {
				errs = append(errs, &ValidationError{Field: "registry.public_fee", Message: err.Error()})
			}
		}
	}

	// 2. API配置
	if appConfig.API != nil {
		if appConfig.API.HTTPPort != nil && (*appConfig.API.HTTPPort <= 0 || *appConfig.API.HTTPPort > 65535) {
			errs = append(errs, &ValidationError{
				Field:   "api.http_port",
				Message: fmt.Sprintf("端口超出范围: %d", *appConfig.API.HTTPPort),
			})
		}
		if appConfig.API.SignatureMaxSkew != nil {
			if d, err := time.ParseDuration(*appConfig.API.SignatureMaxSkew); err != nil || d <= 0 {
				errs = append(errs, &ValidationError{
					Field:   "api.signature_max_skew",
					Message: fmt.Sprintf("时间格式无效: %q（期望类似 \"5m\"）", *appConfig.API.SignatureMaxSkew),
				})
			}
		}
	}

	// 3. 防重放配置
	if appConfig.Replay != nil && appConfig.Replay.Backend != nil {
		switch *appConfig.Replay.Backend {
		case "memory", "redis":
		default:
			errs = append(errs, &ValidationError{
				Field:   "replay.backend",
				Message: fmt.Sprintf("不支持的后端: %q（memory | redis）", *appConfig.Replay.Backend),
			})
		}
	}

	return errors.Join(errs...)
}
