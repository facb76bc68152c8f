package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/unicus/v1/client/output"
	"github.com/unicus/v1/client/transport"
	"github.com/unicus/v1/client/wallet"
	"github.com/unicus/v1/internal/app/version"
	registryconfig "github.com/unicus/v1/internal/config/registry"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Endpoint     string        // 节点地址
	KeyFile      string        // 私钥文件
	OutputFormat string        // 输出格式
	Timeout      time.Duration // 请求超时
}

var (
	globalFlags GlobalFlags
	formatter   *output.Formatter
)

// newRootCmd 创建根命令
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "unicus",
		Short: "Unicus 手表NFT注册表命令行客户端",
		Long: `Unicus CLI - 注册表节点的薄客户端

写操作使用本地私钥对请求签名，私钥从不离开本机：
  --key <file>                  十六进制私钥文件（unicus key new 生成）
  UNICUS_PRIVATE_KEY=<hex>      未指定 --key 时读取的环境变量

示例:
  unicus key new --out ~/.unicus/creator.key
  unicus upload --image watch.png --name "Submariner Date" --serial 1234567 ...
  unicus mint <locator> --key ~/.unicus/creator.key
  unicus token 1 -o text`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(globalFlags.OutputFormat)
			if err != nil {
				return err
			}
			formatter = output.NewFormatter(format, cmd.OutOrStdout())
			formatter.SetLogWriter(cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&globalFlags.Endpoint, "endpoint", envOr("UNICUS_ENDPOINT", "http://127.0.0.1:8080"), "节点地址")
	root.PersistentFlags().StringVar(&globalFlags.KeyFile, "key", "", "私钥文件路径")
	root.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "json", "输出格式: json|text")
	root.PersistentFlags().DurationVar(&globalFlags.Timeout, "timeout", 30*time.Second, "请求超时")

	root.AddCommand(
		newKeyCmd(),
		newUploadCmd(),
		newMintCmd(),
		newClaimCmd(),
		newTransferCmd(),
		newClaimTransferCmd(),
		newApproveCmd(),
		newOperatorCmd(),
		newTokenCmd(),
		newBalanceCmd(),
		newInfoCmd(),
		newEventsCmd(),
		newAdminCmd(),
	)
	return root
}

// Execute 执行根命令
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// getClient 创建节点客户端，私钥可选
func getClient() (*transport.Client, error) {
	key, err := wallet.LoadKey(globalFlags.KeyFile)
	if err != nil {
		return nil, err
	}
	return transport.NewClient(globalFlags.Endpoint, key, globalFlags.Timeout)
}

// commandContext 返回带超时的上下文
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), globalFlags.Timeout)
}

// parseAddress 解析命令行中的地址参数
func parseAddress(name, raw string) (common.Address, error) {
	addr, err := registryconfig.ParseAddress(raw)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", name, err)
	}
	return addr, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
