package main

import (
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/unicus/v1/pkg/utils"
)

// parseTokenID 解析代币编号参数
func parseTokenID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("代币编号无效 %q", raw)
	}
	return id, nil
}

// newMintCmd 铸造代币
func newMintCmd() *cobra.Command {
	var valueEther string

	cmd := &cobra.Command{
		Use:   "mint <uri>",
		Short: "铸造代币（uri 为 upload 返回的 locator）",
		Long: `铸造代币，铸造者成为该代币的 mint owner，需要随后 claim。

创作者免费铸造；其他地址必须通过 --value 支付不少于当前铸造费的金额。`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var valueWei string
			if valueEther != "" {
				wei, err := utils.ParseEtherToWei(valueEther)
				if err != nil {
					return fmt.Errorf("--value: %w", err)
				}
				valueWei = wei.String()
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			resp, err := client.Mint(ctx, args[0], valueWei)
			if err != nil {
				return err
			}
			formatter.PrintSuccess(fmt.Sprintf("代币 #%d 铸造成功，请使用 unicus claim %d 认领", resp.TokenID, resp.TokenID))
			return formatter.Print(resp)
		},
	}
	cmd.Flags().StringVar(&valueEther, "value", "", "随铸造支付的金额（ether），如 0.15")
	return cmd
}

// newClaimCmd 认领代币
func newClaimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim <tokenId>",
		Short: "认领铸造给自己的代币",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			tok, err := client.Claim(ctx, id)
			if err != nil {
				return err
			}
			return formatter.Print(tok)
		},
	}
}

// newTransferCmd 转移代币
func newTransferCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "transfer <tokenId> <to>",
		Short: "转移已认领的代币",
		Long:  "转移代币。指定 --from 时以授权人或操作员身份代为转移。",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			to, err := parseAddress("to", args[1])
			if err != nil {
				return err
			}
			var fromAddr common.Address
			if from != "" {
				if fromAddr, err = parseAddress("--from", from); err != nil {
					return err
				}
			}

			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			tok, err := client.Transfer(ctx, id, fromAddr, to)
			if err != nil {
				return err
			}
			return formatter.Print(tok)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "代币当前持有人（代为转移时指定）")
	return cmd
}

// newClaimTransferCmd 认领并转出
func newClaimTransferCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim-transfer <tokenId> <to>",
		Short: "认领后立即转出",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			to, err := parseAddress("to", args[1])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			tok, err := client.ClaimAndTransfer(ctx, id, to)
			if err != nil {
				return err
			}
			return formatter.Print(tok)
		},
	}
}

// newApproveCmd 单币授权
func newApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <tokenId> <address>",
		Short: "授权地址转移指定代币（零地址清除授权）",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			approved, err := parseAddress("address", args[1])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			tok, err := client.Approve(ctx, id, approved)
			if err != nil {
				return err
			}
			return formatter.Print(tok)
		},
	}
}

// newOperatorCmd 设置操作员
func newOperatorCmd() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "operator <address>",
		Short: "授权或撤销操作员管理自己的全部代币",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			operator, err := parseAddress("address", args[0])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			if err := client.SetApprovalForAll(ctx, operator, !revoke); err != nil {
				return err
			}
			return formatter.Print(map[string]interface{}{
				"operator": operator.Hex(),
				"approved": !revoke,
			})
		},
	}
	cmd.Flags().BoolVar(&revoke, "revoke", false, "撤销授权")
	return cmd
}

// newTokenCmd 查询代币
func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <tokenId>",
		Short: "查询代币详情",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseTokenID(args[0])
			if err != nil {
				return err
			}
			client, err := getClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			tok, err := client.Token(ctx, id)
			if err != nil {
				return err
			}
			return formatter.Print(tok)
		},
	}
}
