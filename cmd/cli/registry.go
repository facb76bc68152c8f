package main

import (
	"github.com/spf13/cobra"
)

// newBalanceCmd 查询持有数量
func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "查询地址持有的代币数量（缺省为 --key 对应地址）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			owner := client.Address()
			if len(args) == 1 {
				if owner, err = parseAddress("address", args[0]); err != nil {
					return err
				}
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			balance, err := client.BalanceOf(ctx, owner)
			if err != nil {
				return err
			}
			creator, err := client.IsCreator(ctx, owner)
			if err != nil {
				return err
			}
			return formatter.Print(map[string]interface{}{
				"address": owner.Hex(),
				"balance": balance,
				"creator": creator,
			})
		},
	}
}

// newInfoCmd 注册表概况
func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "查询注册表概况（总量、铸造费、管理员、创作者）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			info, err := client.Info(ctx)
			if err != nil {
				return err
			}
			return formatter.Print(info)
		},
	}
}

// newEventsCmd 读取事件日志
func newEventsCmd() *cobra.Command {
	var (
		from  uint64
		limit int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "按序号分页读取注册表事件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			page, err := client.Events(ctx, from, limit)
			if err != nil {
				return err
			}
			return formatter.Print(page)
		},
	}
	cmd.Flags().Uint64Var(&from, "from", 1, "起始事件序号")
	cmd.Flags().IntVar(&limit, "limit", 100, "最多返回条数（1-1000）")
	return cmd
}
