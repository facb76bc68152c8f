// Package log 日志级别别名
package log

import "github.com/unicus/v1/pkg/types"

// LogLevel 兼容别名（定义位于 pkg/types）
type LogLevel = types.LogLevel

// 常量别名
const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
	FatalLevel = types.FatalLevel
)
