package log

import (
	configtypes "github.com/unicus/v1/pkg/types"
	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	// === 基础配置 ===
	Level     string `json:"level"`      // 日志级别 (debug, info, warn, error, fatal)
	ToConsole bool   `json:"to_console"` // 是否输出到控制台
	FilePath  string `json:"file_path"`  // 日志文件路径，"stdout"/"stderr" 表示不写文件

	// === 基础轮转配置 ===
	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller     bool `json:"enable_caller"`     // 是否启用调用者信息
	EnableStacktrace bool `json:"enable_stacktrace"` // 是否启用堆栈跟踪

	// === 多文件配置 ===
	EnableMultiFile bool              `json:"enable_multi_file"` // 按 module 字段分流到不同文件
	NodeLogFile     string            `json:"node_log_file"`     // 未登记模块写入的文件
	ModuleFiles     map[string]string `json:"module_files"`      // module -> 文件名

	// === 内部配置（不对外暴露） ===
	LevelMap map[string]zapcore.Level `json:"-"` // 级别映射
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置实现
// userConfig 可以是 *types.UserLogConfig（来自配置文件）或 *LogOptions（完整选项）
func New(userConfig interface{}) *Config {
	if opts, ok := userConfig.(*LogOptions); ok && opts != nil {
		merged := createDefaultLogOptions()
		mergeLogOptions(merged, opts)
		return &Config{options: merged}
	}

	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultLogOptions()

	// 2. 如果有用户配置，应用用户配置覆盖默认值
	if userConfig != nil {
		applyUserLogConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromProvider 从配置提供者创建日志配置
func NewFromProvider(provider interface{}) *Config {
	if p, ok := provider.(interface{ GetLog() *LogOptions }); ok {
		if opts := p.GetLog(); opts != nil {
			return &Config{options: opts}
		}
	}
	return New(nil)
}

// createDefaultLogOptions 创建默认日志配置
func createDefaultLogOptions() *LogOptions {
	return &LogOptions{
		Level:     defaultLogLevel,
		ToConsole: defaultToConsole,
		FilePath:  defaultFilePath,

		MaxSize:    defaultMaxSize,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAge,
		Compress:   defaultCompress,

		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,

		EnableMultiFile: defaultEnableMultiFile,
		NodeLogFile:     defaultNodeLogFile,
		ModuleFiles:     defaultModuleFiles(),

		LevelMap: defaultLevelMap,
	}
}

// applyUserLogConfig 应用用户日志配置覆盖默认值
func applyUserLogConfig(options *LogOptions, userConfig interface{}) {
	logConfig, ok := userConfig.(*configtypes.UserLogConfig)
	if !ok || logConfig == nil {
		return
	}
	if logConfig.Level != nil {
		options.Level = *logConfig.Level
	}
	if logConfig.FilePath != nil {
		options.FilePath = *logConfig.FilePath
		options.ToConsole = false // 指定文件路径时默认不输出到控制台
	}
	if logConfig.ToConsole != nil {
		options.ToConsole = *logConfig.ToConsole
	}
}

// mergeLogOptions 以非零值覆盖默认选项
func mergeLogOptions(dst, src *LogOptions) {
	if src.Level != "" {
		dst.Level = src.Level
	}
	if src.FilePath != "" {
		dst.FilePath = src.FilePath
	}
	dst.ToConsole = src.ToConsole
	dst.EnableCaller = src.EnableCaller
	dst.EnableStacktrace = src.EnableStacktrace
	dst.EnableMultiFile = src.EnableMultiFile
	if src.MaxSize > 0 {
		dst.MaxSize = src.MaxSize
	}
	if src.MaxBackups > 0 {
		dst.MaxBackups = src.MaxBackups
	}
	if src.MaxAge > 0 {
		dst.MaxAge = src.MaxAge
	}
	if src.NodeLogFile != "" {
		dst.NodeLogFile = src.NodeLogFile
	}
	for module, file := range src.ModuleFiles {
		if file == "" {
			delete(dst.ModuleFiles, module)
			continue
		}
		dst.ModuleFiles[module] = file
	}
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// === 基础配置访问方法 ===

// GetLevel 获取日志级别
func (c *Config) GetLevel() string {
	return c.options.Level
}

// GetZapLevel 获取zap日志级别
func (c *Config) GetZapLevel() zapcore.Level {
	if level, exists := c.options.LevelMap[c.options.Level]; exists {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool {
	return c.options.ToConsole
}

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string {
	return c.options.FilePath
}

// IsFileOutput 是否需要写日志文件
func (c *Config) IsFileOutput() bool {
	p := c.options.FilePath
	return p != "" && p != "stdout" && p != "stderr"
}

// === 日志轮转配置访问方法 ===

// GetMaxSize 获取单个文件最大大小(MB)
func (c *Config) GetMaxSize() int {
	return c.options.MaxSize
}

// GetMaxBackups 获取最大备份文件数
func (c *Config) GetMaxBackups() int {
	return c.options.MaxBackups
}

// GetMaxAge 获取最大保留天数
func (c *Config) GetMaxAge() int {
	return c.options.MaxAge
}

// IsCompressionEnabled 是否启用压缩
func (c *Config) IsCompressionEnabled() bool {
	return c.options.Compress
}

// === 调试配置访问方法 ===

// IsCallerEnabled 是否启用调用者信息
func (c *Config) IsCallerEnabled() bool {
	return c.options.EnableCaller
}

// IsStacktraceEnabled 是否启用堆栈跟踪
func (c *Config) IsStacktraceEnabled() bool {
	return c.options.EnableStacktrace
}

// === 多文件配置访问方法 ===

// IsMultiFileEnabled 是否启用多文件日志
func (c *Config) IsMultiFileEnabled() bool {
	return c.options.EnableMultiFile
}

// GetNodeLogFile 未登记模块的日志文件名
func (c *Config) GetNodeLogFile() string {
	return c.options.NodeLogFile
}

// GetModuleFiles 返回 module 到文件名的映射副本
func (c *Config) GetModuleFiles() map[string]string {
	out := make(map[string]string, len(c.options.ModuleFiles))
	for k, v := range c.options.ModuleFiles {
		out[k] = v
	}
	return out
}

// === 编码器 ===

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	}
}

// CreateFileEncoder 文件输出使用 JSON，便于按 module / token_id 检索
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(encoderConfig())
}

// CreateConsoleEncoder 控制台输出使用带颜色的文本
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	cfg := encoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}
