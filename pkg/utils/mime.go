package utils

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMimeType 检测数据的MIME类型
//
// 优先基于文件头魔数检测；无法识别时按文件扩展名回退。
// 返回值不含参数部分（如 "; charset=utf-8"）。
func DetectMimeType(data []byte, fileName ...string) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}

	detected := mimetype.Detect(data)
	if !detected.Is("application/octet-stream") || len(fileName) == 0 || fileName[0] == "" {
		return baseMime(detected.String())
	}

	if extType := getMimeTypeByExtension(strings.ToLower(filepath.Ext(fileName[0]))); extType != "" {
		return extType
	}
	return baseMime(detected.String())
}

// IsImageMime 判断MIME类型是否为图片
func IsImageMime(mime string) bool {
	return strings.HasPrefix(baseMime(mime), "image/")
}

// ExtensionForMime 返回MIME类型对应的常用扩展名（含点），未知时返回空字符串
func ExtensionForMime(mime string) string {
	if m := mimetype.Lookup(baseMime(mime)); m != nil {
		return m.Extension()
	}
	return ""
}

// getMimeTypeByExtension 根据文件扩展名获取MIME类型
func getMimeTypeByExtension(ext string) string {
	mimeMap := map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".bmp":  "image/bmp",
		".svg":  "image/svg+xml",
		".json": "application/json",
		".txt":  "text/plain",
	}
	return mimeMap[ext]
}

func baseMime(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		return strings.TrimSpace(mime[:i])
	}
	return mime
}
