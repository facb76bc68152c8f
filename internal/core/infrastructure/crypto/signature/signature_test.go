package signature

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndRecover(t *testing.T) {
	// Arrange
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)
	body := []byte(`{"uri":"bafy/metadata.json"}`)

	// Act
	sig, err := SignRequest(key, "post", "/api/v1/tokens", 1700000000, "n-1", body)
	require.NoError(t, err)
	signer, err := RecoverSigner("POST", "/api/v1/tokens", 1700000000, "n-1", body, sig)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, addr, signer, "恢复的签名者应与私钥地址一致")
	assert.NoError(t, VerifyRequest(addr, "POST", "/api/v1/tokens", 1700000000, "n-1", body, sig))
}

func TestVerifyRequest_TamperedRequest(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	sig, err := SignRequest(key, "POST", "/api/v1/tokens", 100, "n-1", []byte("a"))
	require.NoError(t, err)

	testCases := []struct {
		name  string
		path  string
		ts    int64
		nonce string
		body  []byte
	}{
		{name: "路径被篡改", path: "/api/v1/operators", ts: 100, nonce: "n-1", body: []byte("a")},
		{name: "时间戳被篡改", path: "/api/v1/tokens", ts: 101, nonce: "n-1", body: []byte("a")},
		{name: "nonce被篡改", path: "/api/v1/tokens", ts: 100, nonce: "n-2", body: []byte("a")},
		{name: "请求体被篡改", path: "/api/v1/tokens", ts: 100, nonce: "n-1", body: []byte("b")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := VerifyRequest(addr, "POST", tc.path, tc.ts, tc.nonce, tc.body, sig)
			assert.Error(t, err, "篡改后的请求不应通过校验")
		})
	}
}

func TestRecoverSigner_AcceptsRawRecoveryID(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sigHex, err := SignRequest(key, "PUT", "/api/v1/admin/fee", 5, "n", nil)
	require.NoError(t, err)
	raw := hexutil.MustDecode(sigHex)
	raw[crypto.RecoveryIDOffset] -= 27

	signer, err := RecoverSigner("PUT", "/api/v1/admin/fee", 5, "n", nil, hexutil.Encode(raw))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), signer)
	assert.Equal(t, SignatureID(sigHex), SignatureID(hexutil.Encode(raw)), "两种V编码应映射到同一防重放标识")
}

func TestRecoverSigner_BadFormat(t *testing.T) {
	_, err := RecoverSigner("POST", "/", 0, "", nil, "0x1234")
	assert.ErrorIs(t, err, ErrInvalidSignatureFormat)

	_, err = RecoverSigner("POST", "/", 0, "", nil, "not-hex")
	assert.ErrorIs(t, err, ErrInvalidSignatureFormat)

	bad := make([]byte, RecoverableSignatureLength)
	bad[crypto.RecoveryIDOffset] = 5
	_, err = RecoverSigner("POST", "/", 0, "", nil, hexutil.Encode(bad))
	assert.ErrorIs(t, err, ErrInvalidRecoveryID)
}

// TestSignRequest_NonceSeparatesIdenticalRequests 同一秒内的相同请求因 nonce 不同而得到不同签名
func TestSignRequest_NonceSeparatesIdenticalRequests(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	body := []byte(`{"to":"0x0000000000000000000000000000000000000001"}`)

	first, err := SignRequest(key, "POST", "/api/v1/tokens/1/transfer", 1700000000, "n-1", body)
	require.NoError(t, err)
	again, err := SignRequest(key, "POST", "/api/v1/tokens/1/transfer", 1700000000, "n-1", body)
	require.NoError(t, err)
	retry, err := SignRequest(key, "POST", "/api/v1/tokens/1/transfer", 1700000000, "n-2", body)
	require.NoError(t, err)

	assert.Equal(t, SignatureID(first), SignatureID(again), "签名是确定性的")
	assert.NotEqual(t, SignatureID(first), SignatureID(retry), "新的 nonce 应得到新的防重放标识")
}
