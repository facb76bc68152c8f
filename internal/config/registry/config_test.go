package registry

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unicus/v1/pkg/types"
)

func strPtr(s string) *string { return &s }

func TestNew_Defaults(t *testing.T) {
	cfg, err := New(nil)
	require.NoError(t, err)

	opts := cfg.GetOptions()
	assert.Equal(t, "150000000000000000", opts.PublicFee.String(), "默认铸造费应为 0.15 ether")
	assert.Equal(t, common.Address{}, opts.Admin)
	assert.Empty(t, opts.Creators)
	assert.Equal(t, defaultCacheSize, opts.CacheSize)
}

func TestNew_UserConfig(t *testing.T) {
	cfg, err := New(&types.UserRegistryConfig{
		Admin:     strPtr("0x00000000000000000000000000000000000000aa"),
		Creators:  []string{"0x00000000000000000000000000000000000000bb"},
		PublicFee: strPtr("1.5"),
	})
	require.NoError(t, err)

	opts := cfg.GetOptions()
	assert.Equal(t, common.HexToAddress("0xaa"), opts.Admin)
	require.Len(t, opts.Creators, 1)
	assert.Equal(t, common.HexToAddress("0xbb"), opts.Creators[0])
	assert.Equal(t, "1500000000000000000", opts.PublicFee.String())
}

func TestNew_InvalidValues(t *testing.T) {
	_, err := New(&types.UserRegistryConfig{Admin: strPtr("not-an-address")})
	assert.ErrorContains(t, err, "registry.admin")

	_, err = New(&types.UserRegistryConfig{Creators: []string{"0x12"}})
	assert.ErrorContains(t, err, "registry.creators[0]")

	_, err = New(&types.UserRegistryConfig{PublicFee: strPtr("-1")})
	assert.ErrorContains(t, err, "registry.public_fee")
}
