package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/unicus/v1/pkg/interfaces/config"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
	"github.com/unicus/v1/pkg/types"
)

// ConfigPathEnv 指定配置文件路径的环境变量，优先级最高
const ConfigPathEnv = "UNICUS_CONFIG_PATH"

// defaultConfigPath 未指定任何配置来源时尝试读取的文件
const defaultConfigPath = "configs/development/config.json"

// appModule 应用模块定义
// 将已解析的选项作为 config.AppOptions 提供给配置模块
func appModule(opts *options) fx.Option {
	return fx.Options(
		fx.Provide(func() config.AppOptions { return opts }),
	)
}

// loadAppConfig 解析配置来源并写入选项
//
// 🔧 零值陷阱处理说明：
// 配置结构使用指针字段区分"未设置"和"设置为零值"，
// 未出现在文件中的字段保持 nil，由各配置包的默认值补齐。
//
// 来源优先级：嵌入配置 > 环境变量 > WithConfigFile > 默认路径。
// 显式指定的文件不存在或格式错误时返回错误；默认路径不存在时使用空配置。
func loadAppConfig(opts *options) error {
	var (
		data     []byte
		source   string
		explicit bool
	)

	switch {
	case len(opts.embeddedConfig) > 0:
		data, source = opts.embeddedConfig, "嵌入配置"
	default:
		path, isExplicit := resolveConfigFilePath(opts.configFilePath)
		source, explicit = path, isExplicit
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) && !explicit {
				fmt.Printf("配置文件 %s 不存在，使用默认配置\n", path)
				opts.applyOverrides()
				return nil
			}
			return fmt.Errorf("读取配置文件失败 %s: %w", path, err)
		}
		data = raw
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return fmt.Errorf("解析配置失败 %s: %w", source, err)
	}
	opts.appConfig = &appConfig
	opts.applyOverrides()
	fmt.Printf("已成功加载配置: %s\n", source)

	if err := createDataDirectories(opts.appConfig); err != nil {
		return err
	}
	return nil
}

// resolveConfigFilePath 获取配置文件路径
// 返回值 explicit 表示路径是否由调用方明确指定
func resolveConfigFilePath(configured string) (path string, explicit bool) {
	// 1. 优先使用环境变量
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		return envPath, true
	}

	// 2. 其次使用选项指定的路径
	if configured != "" {
		return configured, true
	}

	// 3. 最后使用开发环境默认配置
	return defaultConfigPath, false
}

// createDataDirectories 根据配置自动创建数据目录结构
// 内存存储模式下不创建数据根目录
func createDataDirectories(appConfig *types.AppConfig) error {
	var directories []string

	inMemory := appConfig.Storage != nil && appConfig.Storage.InMemory != nil && *appConfig.Storage.InMemory
	if !inMemory && appConfig.Storage != nil && appConfig.Storage.DataRoot != nil {
		directories = append(directories, *appConfig.Storage.DataRoot)
	}

	if appConfig.Log != nil && appConfig.Log.FilePath != nil && *appConfig.Log.FilePath != "" {
		directories = append(directories, filepath.Dir(*appConfig.Log.FilePath))
	}

	for _, dir := range directories {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %w", dir, err)
		}
		fmt.Printf("📁 目录已就绪: %s\n", dir)
	}
	return nil
}

// App 是Unicus节点的对外接口
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 阻塞直到收到退出信号，然后停止应用
	Wait()

	// Registry 返回已装配的代币注册表
	Registry() registryif.TokenRegistry

	// HTTPAddr 返回HTTP服务实际监听地址，API未启用时为空
	HTTPAddr() string
}

// internalApp 应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	fmt.Println("🛑 停止应用...")

	// 留足时间让 badger 完成同步和关闭
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	fmt.Println("🔄 节点正在运行，按 Ctrl+C 停止...")

	sig := WaitForSignal()
	fmt.Printf("\n🛑 收到信号 %v，正在优雅退出...\n", sig)

	if err := a.Stop(); err != nil {
		fmt.Printf("⚠️ 停止应用时出错: %v\n", err)
	}
}

// Registry 返回代币注册表
func (a *internalApp) Registry() registryif.TokenRegistry {
	return a.bootstrap.registry
}

// HTTPAddr 返回HTTP监听地址
func (a *internalApp) HTTPAddr() string {
	if a.bootstrap.server == nil {
		return ""
	}
	return a.bootstrap.server.Addr()
}

// Start 启动应用
func Start(appOptions ...Option) (App, error) {
	return BootstrapApp(appOptions...)
}

// WaitForSignal 等待退出信号
func WaitForSignal() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)
	return <-signals
}
