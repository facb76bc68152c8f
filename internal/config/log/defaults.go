package log

import (
	"go.uber.org/zap/zapcore"
)

// 日志配置默认值
const (
	// === 基础日志配置 ===

	// defaultLogLevel 默认日志级别
	defaultLogLevel = "info"

	// defaultToConsole 默认启用控制台输出
	defaultToConsole = true

	// defaultFilePath 默认只输出到标准输出
	// 节点启动时由 app 层根据 data_dir 改写为 {data_dir}/logs/unicus.log
	defaultFilePath = "stdout"

	// === 日志轮转配置 ===

	// defaultMaxSize 单个日志文件最大大小(MB)
	defaultMaxSize = 100

	// defaultMaxBackups 最大备份文件数
	defaultMaxBackups = 10

	// defaultMaxAge 日志文件最大保留天数
	defaultMaxAge = 30

	// defaultCompress 默认启用历史日志压缩
	defaultCompress = true

	// === 调试配置 ===

	// defaultEnableCaller 默认启用调用者信息
	defaultEnableCaller = true

	// defaultEnableStacktrace 默认对Error级别启用堆栈跟踪
	defaultEnableStacktrace = true

	// === 多文件日志配置 ===

	// defaultEnableMultiFile 默认启用多文件日志
	defaultEnableMultiFile = true

	// defaultNodeLogFile 存储、事件、指标等基础设施日志
	defaultNodeLogFile = "node.log"
)

// defaultModuleFiles 注册表与上传写入审计日志，HTTP 写入访问日志
func defaultModuleFiles() map[string]string {
	return map[string]string{
		"registry":   "registry.log",
		"nftstorage": "registry.log",
		"api":        "access.log",
	}
}

// 默认的日志级别映射
var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"panic": zapcore.PanicLevel,
	"fatal": zapcore.FatalLevel,
}
