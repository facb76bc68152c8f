package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEtherToWei(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "铸造费", input: "0.15", want: "150000000000000000"},
		{name: "整数", input: "2", want: "2000000000000000000"},
		{name: "空字符串为零", input: "  ", want: "0"},
		{name: "最小单位", input: "0.000000000000000001", want: "1"},
		{name: "精度超限", input: "0.0000000000000000001", wantErr: true},
		{name: "负数", input: "-1", wantErr: true},
		{name: "非法格式", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEtherToWei(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseWei(t *testing.T) {
	v, err := ParseWei("150000000000000000")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Cmp(big.NewInt(150000000000000000)))

	v, err = ParseWei("")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	_, err = ParseWei("1.5")
	assert.Error(t, err, "wei 不允许小数")

	_, err = ParseWei("-3")
	assert.Error(t, err)
}

func TestFormatWeiToEther(t *testing.T) {
	assert.Equal(t, "0.15", FormatWeiToEther(big.NewInt(150000000000000000)))
	assert.Equal(t, "1", FormatWeiToEther(EtherToWei(1)))
	assert.Equal(t, "0", FormatWeiToEther(nil))
}
