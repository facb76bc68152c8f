package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/unicus/v1/configs"
	"github.com/unicus/v1/internal/app"
	"github.com/unicus/v1/internal/app/version"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n❌ [PANIC] 程序发生严重错误: %v\n", r)
			fmt.Fprintf(os.Stderr, "请检查配置是否正确\n")
			os.Exit(1)
		}
	}()

	// 子命令：config init
	if len(os.Args) > 2 && os.Args[1] == "config" && os.Args[2] == "init" {
		configInitCommand(os.Args[3:])
		return
	}

	var (
		configPath  string // 配置文件路径（为空时使用内嵌开发配置）
		httpPort    int    // HTTP端口覆盖
		dataDir     string // 数据目录覆盖
		showHelp    bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "配置文件路径（不指定时使用内嵌开发环境配置）")
	flag.IntVar(&httpPort, "http-port", 0, "HTTP端口（覆盖配置中的 api.http_port）")
	flag.StringVar(&dataDir, "data-dir", "", "数据目录（覆盖配置中的 storage.data_root）")
	flag.BoolVar(&showHelp, "help", false, "显示帮助信息")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.Parse()

	if showVersion {
		fmt.Println(version.GetFullVersion("unicus-node"))
		return
	}
	if showHelp {
		showHelpInfo()
		return
	}

	var startOptions []app.Option
	source := configPath
	if configPath == "" {
		// 环境变量优先于内嵌配置
		if envPath := os.Getenv(app.ConfigPathEnv); envPath != "" {
			source = envPath
			startOptions = append(startOptions, app.WithConfigFile(envPath))
		} else {
			source = "内嵌开发环境配置"
			startOptions = append(startOptions, app.WithEmbeddedConfig(configs.GetDevelopmentConfig()))
		}
	} else {
		startOptions = append(startOptions, app.WithConfigFile(configPath))
	}
	if httpPort > 0 {
		startOptions = append(startOptions, app.WithHTTPPort(httpPort))
	}
	if dataDir != "" {
		startOptions = append(startOptions, app.WithDataDir(dataDir))
	}
	startOptions = append(startOptions, app.WithAPI())

	fmt.Printf("🚀 正在启动 unicus-node %s\n", version.GetVersion())
	fmt.Printf("   配置来源: %s\n", source)

	nodeApp, err := app.Start(startOptions...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 节点启动失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ 节点启动成功！")
	if addr := nodeApp.HTTPAddr(); addr != "" {
		fmt.Printf("📡 API地址: http://%s/api/v1/\n", addr)
	}
	nodeApp.Wait()
}

func showHelpInfo() {
	fmt.Println("unicus-node - 手表NFT代币注册表节点")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  unicus-node [选项]")
	fmt.Println("  unicus-node config init --env <dev|test|prod> --admin <address> --out <path> [--force]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  --config <path>     配置文件路径（也可通过环境变量 " + app.ConfigPathEnv + " 指定）")
	fmt.Println("                      不指定时使用内嵌开发环境配置（签名校验关闭，仅限本地调试）")
	fmt.Println("  --http-port <port>  HTTP端口（覆盖配置中的 api.http_port）")
	fmt.Println("  --data-dir <path>   数据目录（覆盖配置中的 storage.data_root）")
	fmt.Println("  --help              显示此帮助信息")
	fmt.Println("  --version           显示版本信息")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 本地开发（内嵌配置，监听 127.0.0.1:8080）")
	fmt.Println("  unicus-node")
	fmt.Println()
	fmt.Println("  # 生成生产配置并启动")
	fmt.Println("  unicus-node config init --env prod --admin 0xYourAdmin --out ./unicus.json")
	fmt.Println("  unicus-node --config ./unicus.json --data-dir /data/unicus")
}
