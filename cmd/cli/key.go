package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/unicus/v1/client/wallet"
)

// newKeyCmd 本地私钥管理
func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "本地私钥管理",
	}

	var out string
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "生成新私钥并写入文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := wallet.NewKeyFile(out)
			if err != nil {
				return err
			}
			formatter.PrintSuccess(fmt.Sprintf("私钥已写入 %s，请妥善保管", out))
			return formatter.Print(acct)
		},
	}
	newCmd.Flags().StringVar(&out, "out", "", "私钥文件路径")
	_ = newCmd.MarkFlagRequired("out")

	addressCmd := &cobra.Command{
		Use:   "address",
		Short: "显示 --key 对应的地址",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := wallet.LoadKey(globalFlags.KeyFile)
			if err != nil {
				return err
			}
			if key == nil {
				return fmt.Errorf("未提供私钥，请通过 --key 或 %s 指定", wallet.KeyEnv)
			}
			return formatter.Print(&wallet.Account{
				Address: crypto.PubkeyToAddress(key.PublicKey),
				KeyFile: globalFlags.KeyFile,
			})
		},
	}

	cmd.AddCommand(newCmd, addressCmd)
	return cmd
}
