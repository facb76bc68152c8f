// Package log 提供基于zap的日志实现
//
// 控制台输出彩色文本，文件输出 JSON 并由 lumberjack 轮转。
// 多文件模式下按 module 字段分流：注册表审计、HTTP 访问和节点日志各自成文件。
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	logconfig "github.com/unicus/v1/internal/config/log"
	logInterface "github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 日志级别定义
const (
	DebugLevel = string(logInterface.DebugLevel)
	InfoLevel  = string(logInterface.InfoLevel)
	WarnLevel  = string(logInterface.WarnLevel)
	ErrorLevel = string(logInterface.ErrorLevel)
	FatalLevel = string(logInterface.FatalLevel)
)

// ModuleKey 路由日志文件使用的字段名
const ModuleKey = "module"

var (
	globalLogger logInterface.Logger
	mu           sync.RWMutex
)

// Logger 实现 log.Logger 接口
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
	// 仅根记录器持有，With 派生的记录器不负责关闭文件
	closers []io.Closer
}

func init() {
	ResetDefault()
}

// ResetDefault 以默认配置重建全局日志记录器
func ResetDefault() {
	logger, err := New(logconfig.New(nil))
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化默认日志记录器失败: %v\n", err)
		return
	}
	SetLogger(logger)
}

// New 根据配置创建日志记录器
func New(config *logconfig.Config) (logInterface.Logger, error) {
	level := zap.NewAtomicLevelAt(config.GetZapLevel())

	var (
		cores   []zapcore.Core
		closers []io.Closer
	)
	if out := consoleOutput(config); out != nil {
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(), out, level))
	}
	if config.IsFileOutput() {
		core, files, err := newFileCore(config, level)
		if err != nil {
			return nil, err
		}
		cores = append(cores, core)
		closers = files
	}
	// 没有任何输出时退回到标准错误，避免日志被静默丢弃
	if len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(), zapcore.Lock(os.Stderr), level))
	}

	var opts []zap.Option
	if config.IsCallerEnabled() {
		// 跳过本文件的封装层
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if config.IsStacktraceEnabled() {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), opts...)
	return &Logger{
		zapLogger: zapLogger,
		sugar:     zapLogger.Sugar(),
		closers:   closers,
	}, nil
}

// consoleOutput 返回控制台输出，不需要时返回 nil
func consoleOutput(config *logconfig.Config) zapcore.WriteSyncer {
	switch path := config.GetFilePath(); {
	case path == "stderr":
		return zapcore.Lock(os.Stderr)
	case path == "stdout", config.IsConsoleEnabled():
		return zapcore.Lock(os.Stdout)
	}
	return nil
}

// newFileCore 创建文件输出，多文件模式下返回按模块分流的 core
func newFileCore(config *logconfig.Config, level zapcore.LevelEnabler) (zapcore.Core, []io.Closer, error) {
	logPath, err := filepath.Abs(config.GetFilePath())
	if err != nil {
		return nil, nil, fmt.Errorf("获取日志文件绝对路径失败: %w", err)
	}
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("创建日志目录失败 %s: %w", dir, err)
	}

	encoder := config.CreateFileEncoder()
	if !config.IsMultiFileEnabled() {
		w := newRotatingWriter(logPath, config)
		return zapcore.NewCore(encoder, zapcore.AddSync(w), level), []io.Closer{w}, nil
	}

	core := &routeCore{
		cores:    make(map[string]zapcore.Core),
		routes:   config.GetModuleFiles(),
		fallback: config.GetNodeLogFile(),
		level:    level,
	}
	var closers []io.Closer
	names := []string{core.fallback}
	for _, name := range core.routes {
		names = append(names, name)
	}
	for _, name := range names {
		if _, exists := core.cores[name]; exists {
			continue
		}
		w := newRotatingWriter(filepath.Join(dir, name), config)
		closers = append(closers, w)
		core.cores[name] = zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	}
	return core, closers, nil
}

func newRotatingWriter(path string, config *logconfig.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    config.GetMaxSize(), // MB
		MaxBackups: config.GetMaxBackups(),
		MaxAge:     config.GetMaxAge(), // days
		Compress:   config.IsCompressionEnabled(),
	}
}

// routeCore 按 module 字段选择输出文件
//
// 同一文件可以被多个 module 共享；未登记的 module 写入 fallback。
type routeCore struct {
	cores    map[string]zapcore.Core // 文件名 -> core
	routes   map[string]string       // module -> 文件名
	fallback string
	module   string // 通过 With 绑定的 module
	level    zapcore.LevelEnabler
}

func (c *routeCore) Enabled(level zapcore.Level) bool {
	return c.level.Enabled(level)
}

// With 绑定的字段不会再出现在 Write 的 fields 中，需要在此记住 module
func (c *routeCore) With(fields []zapcore.Field) zapcore.Core {
	next := &routeCore{
		cores:    make(map[string]zapcore.Core, len(c.cores)),
		routes:   c.routes,
		fallback: c.fallback,
		module:   c.module,
		level:    c.level,
	}
	if m := moduleOf(fields); m != "" {
		next.module = m
	}
	for name, core := range c.cores {
		next.cores[name] = core.With(fields)
	}
	return next
}

func (c *routeCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *routeCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	module := moduleOf(fields)
	if module == "" {
		module = c.module
	}
	return c.target(module).Write(entry, fields)
}

func (c *routeCore) target(module string) zapcore.Core {
	if name, ok := c.routes[module]; ok {
		if core, ok := c.cores[name]; ok {
			return core
		}
	}
	return c.cores[c.fallback]
}

func (c *routeCore) Sync() error {
	var errs []error
	for _, core := range c.cores {
		if err := core.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// moduleOf 从字段中提取 module 值
func moduleOf(fields []zapcore.Field) string {
	for _, field := range fields {
		if field.Key != ModuleKey {
			continue
		}
		// zap.String 写入 field.String，zap.Any 可能放在 Interface 中
		if field.Type == zapcore.StringType {
			return field.String
		}
		switch v := field.Interface.(type) {
		case string:
			return v
		case fmt.Stringer:
			return v.String()
		}
	}
	return ""
}

// GetZapLogger 获取底层的zap日志记录器
func (l *Logger) GetZapLogger() *zap.Logger {
	return l.zapLogger
}

// SetLogger 设置全局日志记录器
func SetLogger(logger logInterface.Logger) {
	if logger == nil {
		return
	}
	mu.Lock()
	globalLogger = logger
	mu.Unlock()
}

// GetLogger 获取全局日志记录器
func GetLogger() logInterface.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// toZapFields 将键值对参数转换为 zap 字段，末尾落单的键被丢弃
func toZapFields(args ...interface{}) []zap.Field {
	if len(args)%2 != 0 {
		args = args[:len(args)-1]
	}
	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}

func (l *Logger) Debug(msg string)                          { l.sugar.Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(msg string)                           { l.sugar.Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.sugar.Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.sugar.Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *Logger) Fatal(msg string)                          { l.sugar.Fatal(msg) }
func (l *Logger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// With 返回一个带有额外字段的Logger
func (l *Logger) With(args ...interface{}) logInterface.Logger {
	z := l.zapLogger.With(toZapFields(args...)...)
	return &Logger{zapLogger: z, sugar: z.Sugar()}
}

// Sync 同步日志缓冲区到输出
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// Close 同步后关闭日志文件
func (l *Logger) Close() error {
	errs := []error{l.zapLogger.Sync()}
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}
