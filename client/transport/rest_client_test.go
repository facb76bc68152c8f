package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httptypes "github.com/unicus/v1/internal/api/http/types"
	"github.com/unicus/v1/internal/core/infrastructure/crypto/signature"
	"github.com/unicus/v1/pkg/types"
)

// verifyingServer 校验签名并记录请求体的测试服务
func verifyingServer(t *testing.T, handle func(w http.ResponseWriter, r *http.Request, body []byte)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		if r.Method != http.MethodGet {
			ts, err := strconv.ParseInt(r.Header.Get(signature.HeaderTimestamp), 10, 64)
			require.NoError(t, err)
			claimed := common.HexToAddress(r.Header.Get(signature.HeaderAddress))
			err = signature.VerifyRequest(claimed, r.Method, r.URL.Path, ts, r.Header.Get(signature.HeaderNonce), body, r.Header.Get(signature.HeaderSignature))
			require.NoError(t, err, "客户端签名应能被校验通过")
		}
		handle(w, r, body)
	}))
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(httptypes.NewSuccessResponse(data))
}

func TestClient_MintSignsRequest(t *testing.T) {
	// Arrange
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	srv := verifyingServer(t, func(w http.ResponseWriter, r *http.Request, body []byte) {
		assert.Equal(t, "/api/v1/tokens", r.URL.Path)
		var req httptypes.MintRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "bafy/metadata.json", req.URI)
		assert.Equal(t, "150000000000000000", req.Value)
		writeData(w, http.StatusCreated, &httptypes.MintResponse{TokenID: 3, TokenURI: "ipfs://bafy/metadata.json"})
	})
	defer srv.Close()

	c, err := NewClient(srv.URL, key, 0)
	require.NoError(t, err)

	// Act
	resp, err := c.Mint(context.Background(), "bafy/metadata.json", "150000000000000000")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(3), resp.TokenID)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), c.Address())
}

func TestClient_ProblemDetails(t *testing.T) {
	srv := verifyingServer(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status":409,"code":"REGISTRY_TRANSFER_RESTRICTED","detail":"token must be claimed"}`))
	})
	defer srv.Close()

	key, _ := crypto.GenerateKey()
	c, err := NewClient(srv.URL, key, 0)
	require.NoError(t, err)

	_, err = c.Transfer(context.Background(), 1, common.Address{}, common.HexToAddress("0x01"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "REGISTRY_TRANSFER_RESTRICTED", apiErr.Problem.Code)
}

// TestClient_RetryUsesFreshNonce 重试同一请求时使用新的 nonce 和签名
func TestClient_RetryUsesFreshNonce(t *testing.T) {
	var nonces, sigs []string
	srv := verifyingServer(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		nonces = append(nonces, r.Header.Get(signature.HeaderNonce))
		sigs = append(sigs, r.Header.Get(signature.HeaderSignature))
		writeData(w, http.StatusOK, &httptypes.TokenView{ID: 1})
	})
	defer srv.Close()

	key, _ := crypto.GenerateKey()
	c, err := NewClient(srv.URL, key, 0)
	require.NoError(t, err)
	fixed := time.Unix(1700000000, 0)
	c.now = func() time.Time { return fixed }

	to := common.HexToAddress("0x01")
	for i := 0; i < 2; i++ {
		_, err = c.Transfer(context.Background(), 1, common.Address{}, to)
		require.NoError(t, err)
	}

	require.Len(t, nonces, 2)
	assert.NotEmpty(t, nonces[0])
	assert.NotEqual(t, nonces[0], nonces[1], "每个请求应使用新的 nonce")
	assert.NotEqual(t, sigs[0], sigs[1], "同一秒内的重试应得到不同签名")
}

func TestClient_ReadsWithoutKey(t *testing.T) {
	srv := verifyingServer(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		switch r.URL.Path {
		case "/api/v1/events":
			assert.Equal(t, "5", r.URL.Query().Get("from"))
			writeData(w, http.StatusOK, &httptypes.EventPage{Events: []types.RegistryEvent{}, NextFrom: 5})
		default:
			writeData(w, http.StatusOK, &httptypes.BalanceResponse{Balance: 2})
		}
	})
	defer srv.Close()

	c, err := NewClient(srv.URL+"/", nil, 0)
	require.NoError(t, err)
	ctx := context.Background()

	balance, err := c.BalanceOf(ctx, common.HexToAddress("0x02"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), balance)

	page, err := c.Events(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), page.NextFrom)

	_, err = c.Claim(ctx, 1)
	assert.ErrorIs(t, err, ErrNoKey, "无私钥时写操作应直接失败")
}

func TestClient_UploadMultipart(t *testing.T) {
	srv := verifyingServer(t, func(w http.ResponseWriter, r *http.Request, _ []byte) {
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")
		writeData(w, http.StatusCreated, &types.UploadResult{Locator: "bafydir/metadata.json"})
	})
	defer srv.Close()

	key, _ := crypto.GenerateKey()
	c, err := NewClient(srv.URL, key, 0)
	require.NoError(t, err)

	res, err := c.Upload(context.Background(), []byte{0x89, 'P', 'N', 'G'}, types.WatchMetadata{
		Name: "Daytona", FileType: "image/png", FileName: "watch.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "bafydir/metadata.json", res.Locator)
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	_, err := NewClient("localhost:8080", nil, 0)
	assert.Error(t, err, "缺少协议的地址应报错")
}
