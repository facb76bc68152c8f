package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

// newAdminCmd 管理员命令，--key 必须是注册表管理员
func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "管理员操作：创作者、铸造费、提取费用",
	}
	cmd.AddCommand(newAdminCreatorCmd(), newAdminFeeCmd(), newAdminWithdrawCmd())
	return cmd
}

func newAdminCreatorCmd() *cobra.Command {
	var disable bool

	cmd := &cobra.Command{
		Use:   "creator <address>",
		Short: "授予或撤销创作者资格",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creator, err := parseAddress("address", args[0])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			if err := client.SetCreator(ctx, creator, !disable); err != nil {
				return err
			}
			return formatter.Print(map[string]interface{}{
				"creator": creator.Hex(),
				"enabled": !disable,
			})
		},
	}
	cmd.Flags().BoolVar(&disable, "disable", false, "撤销创作者资格")
	return cmd
}

func newAdminFeeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fee <ether>",
		Short: "设置非创作者铸造费（ether），如 0.15",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			fee, err := client.SetPublicFee(ctx, args[0])
			if err != nil {
				return err
			}
			formatter.PrintSuccess(fmt.Sprintf("铸造费已设置为 %s ether", fee.Ether))
			return formatter.Print(fee)
		},
	}
}

func newAdminWithdrawCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "提取累计铸造费（缺省提取到管理员地址）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var recipient common.Address
			if to != "" {
				var err error
				if recipient, err = parseAddress("--to", to); err != nil {
					return err
				}
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			amount, err := client.WithdrawFees(ctx, recipient)
			if err != nil {
				return err
			}
			return formatter.Print(amount)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "收款地址")
	return cmd
}
