package nftstorage

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/unicus/v1/pkg/types"
)

var (
	// imageMimePattern 允许的图片类型
	imageMimePattern = regexp.MustCompile(`^image/(jpeg|png|gif|bmp|svg\+xml)$`)
	// fileNamePattern 不含路径分隔符和保留字符的文件名
	fileNamePattern = regexp.MustCompile(`^[^\\/:*?"<>|]+(\.[^\\/:*?"<>|]+)*$`)
	// extensionPattern 文件扩展名（含点）
	extensionPattern = regexp.MustCompile(`\.[^/.]+$`)
)

// newValidator 创建带自定义规则的校验器
//
//	notfuture  年份不晚于当前年份
//	imagemime  允许的图片MIME类型
//	filename   合法文件名
func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(now().Year())
	})
	_ = v.RegisterValidation("imagemime", func(fl validator.FieldLevel) bool {
		return imageMimePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("filename", func(fl validator.FieldLevel) bool {
		return fileNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// validateMetadata 校验元数据，返回 *ValidationError
func (s *Service) validateMetadata(md *types.WatchMetadata) error {
	err := s.validate.Struct(md)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("元数据校验异常: %w", err)
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return &ValidationError{Fields: fields}
}

// describe 把校验标签翻译成可读消息
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s characters", fe.Param())
	case "notfuture":
		return "must not be in the future"
	case "imagemime":
		return "must be one of image/jpeg, image/png, image/gif, image/bmp, image/svg+xml"
	case "filename":
		return "contains invalid characters"
	default:
		return "failed " + fe.Tag()
	}
}

// fileExtension 返回文件扩展名（含点）
func fileExtension(fileName string) (string, error) {
	ext := extensionPattern.FindString(fileName)
	if ext == "" {
		return "", ErrMissingExtension
	}
	return ext, nil
}

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// imageFileName 由手表名称生成图片文件名
// 小写、去除非单词字符、空白折叠为下划线，再拼接原扩展名
func imageFileName(name, ext string) string {
	slug := strings.ToLower(name)
	slug = nonWordPattern.ReplaceAllString(slug, "")
	slug = whitespacePattern.ReplaceAllString(slug, "_")
	return slug + ext
}
