package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unicus/v1/configs"
	"github.com/unicus/v1/internal/config"
	registryconfig "github.com/unicus/v1/internal/config/registry"
	"github.com/unicus/v1/pkg/types"
)

// configInitCommand 实现 config init 子命令：按环境模板生成配置文件
func configInitCommand(args []string) {
	var (
		env   string
		admin string
		out   string
		force bool
	)

	fs := flag.NewFlagSet("config init", flag.ExitOnError)
	fs.StringVar(&env, "env", "prod", "运行环境模板：dev | test | prod")
	fs.StringVar(&admin, "admin", "", "管理员地址（0x前缀十六进制，必需）")
	fs.StringVar(&out, "out", "", "输出文件路径（必需）")
	fs.BoolVar(&force, "force", false, "强制覆盖已存在的文件")
	fs.Usage = func() {
		fmt.Println("用法: unicus-node config init --env <env> --admin <address> --out <path> [--force]")
		fmt.Println()
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Printf("❌ 解析参数失败: %v\n", err)
		os.Exit(1)
	}
	if admin == "" || out == "" {
		fmt.Println("❌ 错误: 必须指定 --admin 和 --out 参数")
		fs.Usage()
		os.Exit(1)
	}

	data, err := renderConfigTemplate(strings.ToLower(env), admin)
	if err != nil {
		fmt.Printf("❌ 生成配置失败: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stat(out); err == nil && !force {
		fmt.Printf("❌ 文件 %s 已存在，使用 --force 覆盖\n", out)
		os.Exit(1)
	}
	if dir := filepath.Dir(out); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Printf("❌ 创建输出目录失败: %v\n", err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Printf("❌ 写入文件失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ 已生成 %s 环境配置文件: %s\n", env, out)
	fmt.Println()
	fmt.Println("⚠️  重要提示:")
	fmt.Println("  1. registry.creators 和 registry.public_fee 只在首次启动时写入账本，之后请通过管理员接口修改")
	fmt.Println("  2. 生产环境请保持 api.require_signature 为 true")
	fmt.Printf("  3. 启动: unicus-node --config %s\n", out)
}

// renderConfigTemplate 读取内嵌模板，写入管理员地址并校验
func renderConfigTemplate(env, admin string) ([]byte, error) {
	template, err := configs.GetTemplate(env)
	if err != nil {
		return nil, err
	}

	addr, err := registryconfig.ParseAddress(admin)
	if err != nil {
		return nil, fmt.Errorf("管理员地址无效: %w", err)
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(template, &appConfig); err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}
	if appConfig.Registry == nil {
		appConfig.Registry = &types.UserRegistryConfig{}
	}
	hex := addr.Hex()
	appConfig.Registry.Admin = &hex

	if err := config.ValidateMandatoryConfig(&appConfig); err != nil {
		return nil, err
	}
	return json.MarshalIndent(&appConfig, "", "  ")
}
