package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
	"github.com/shopspring/decimal"
)

// EtherDecimals ether 与 wei 之间的小数位数
const EtherDecimals = 18

// ========================================
// 核心金额解析函数
// ========================================

// ParseWei 解析十进制整数形式的wei金额字符串
//
// 空字符串返回 0；负数、非整数、非法格式返回错误。
func ParseWei(amountStr string) (*big.Int, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return new(big.Int), nil
	}

	amount, ok := new(big.Int).SetString(amountStr, 10)
	if !ok {
		return nil, fmt.Errorf("金额格式无效: %s", amountStr)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("金额不能为负数: %s", amountStr)
	}
	return amount, nil
}

// ParseEtherToWei 将以ether计的小数字符串转换为wei
//
// 使用 decimal 无损计算，小数位超过18位时返回错误
// 例如："0.15" → 150000000000000000
func ParseEtherToWei(amountStr string) (*big.Int, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return new(big.Int), nil
	}

	d, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("金额格式无效: %s: %w", amountStr, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("金额不能为负数: %s", amountStr)
	}

	wei := d.Shift(EtherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("小数精度超出限制（最多%d位）: %s", EtherDecimals, amountStr)
	}
	return wei.BigInt(), nil
}

// FormatWeiToEther 将wei金额格式化为ether小数字符串（去除末尾0）
// 例如：150000000000000000 → "0.15"
func FormatWeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -EtherDecimals).String()
}

// EtherToWei 将整数个ether转换为wei
func EtherToWei(ether int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(ether), big.NewInt(params.Ether))
}
