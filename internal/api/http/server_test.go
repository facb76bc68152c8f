package http

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	httptypes "github.com/unicus/v1/internal/api/http/types"
	apitypes "github.com/unicus/v1/internal/api/types"
	apiconfig "github.com/unicus/v1/internal/config/api"
	eventconfig "github.com/unicus/v1/internal/config/event"
	nftstorageconfig "github.com/unicus/v1/internal/config/nftstorage"
	registryconfig "github.com/unicus/v1/internal/config/registry"
	badgerconfig "github.com/unicus/v1/internal/config/storage/badger"
	"github.com/unicus/v1/internal/core/infrastructure/crypto/signature"
	"github.com/unicus/v1/internal/core/infrastructure/event"
	infralog "github.com/unicus/v1/internal/core/infrastructure/log"
	"github.com/unicus/v1/internal/core/infrastructure/storage/badger"
	"github.com/unicus/v1/internal/core/nftstorage"
	"github.com/unicus/v1/internal/core/registry"
	"github.com/unicus/v1/internal/core/replay"
	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI 基于真实注册表、内存对象存储和内存防重放记录的API
type testAPI struct {
	t        *testing.T
	router   *gin.Engine
	registry *registry.Service
	admin    *ecdsa.PrivateKey
	user     *ecdsa.PrivateKey
	other    *ecdsa.PrivateKey
}

func newKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func addr(key *ecdsa.PrivateKey) common.Address {
	return crypto.PubkeyToAddress(key.PublicKey)
}

func testAPIOptions() *apiconfig.APIOptions {
	opts := apiconfig.New(nil).GetOptions()
	opts.HTTP.RateLimitReadPerSecond = 1000
	opts.HTTP.RateLimitWritePerSecond = 1000
	return opts
}

// newTestAPI 创建测试API，mutate 可在构建路由前调整配置
func newTestAPI(t *testing.T, mutate func(*apiconfig.APIOptions)) *testAPI {
	t.Helper()

	store, err := badger.New(badgerconfig.New(&badgerconfig.BadgerOptions{InMemory: true}), nil)
	require.NoError(t, err, "创建内存存储应该成功")
	t.Cleanup(func() { _ = store.Close() })

	bus := event.New(eventconfig.New(nil), nil)
	api := &testAPI{t: t, admin: newKey(t), user: newKey(t), other: newKey(t)}

	fee, err := utils.ParseEtherToWei("0.15")
	require.NoError(t, err)
	api.registry, err = registry.NewService(store, bus, nil, &registryconfig.RegistryOptions{
		Admin:     addr(api.admin),
		PublicFee: fee,
		CacheSize: 16,
	})
	require.NoError(t, err)

	root, err := nftstorage.NewDatastore(nftstorageconfig.BackendMemory, nil)
	require.NoError(t, err)
	uploader, err := nftstorage.NewService(root, nil, bus, nil, nil)
	require.NoError(t, err)

	guard, err := replay.NewMemoryGuard(10 * time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Close() })

	opts := testAPIOptions()
	if mutate != nil {
		mutate(opts)
	}

	reg := prometheus.NewRegistry()
	api.router, err = NewRouter(RouterDeps{
		Options:    opts,
		Logger:     infralog.GetLogger(),
		Registry:   api.registry,
		Uploader:   uploader,
		Guard:      guard,
		Registerer: reg,
		Gatherer:   reg,
	})
	require.NoError(t, err)
	return api
}

// signed 构造签名请求
func (a *testAPI) signed(key *ecdsa.PrivateKey, method, path string, body interface{}) *http.Request {
	a.t.Helper()
	return a.signedAt(key, method, path, body, time.Now().Unix())
}

// signedAt 以指定时间戳和新 nonce 构造签名请求
func (a *testAPI) signedAt(key *ecdsa.PrivateKey, method, path string, body interface{}, ts int64) *http.Request {
	a.t.Helper()
	raw := encodeBody(a.t, body)
	nonce := uuid.NewString()
	sig, err := signature.SignRequest(key, method, path, ts, nonce, raw)
	require.NoError(a.t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signature.HeaderAddress, addr(key).Hex())
	req.Header.Set(signature.HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(signature.HeaderSignature, sig)
	req.Header.Set(signature.HeaderNonce, nonce)
	return req
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func encodeBody(t *testing.T, body interface{}) []byte {
	t.Helper()
	if body == nil {
		return nil
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}

// decodeData 解析成功响应中的 data 字段
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

// decodeProblem 解析 Problem Details 响应
func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) apitypes.ProblemDetails {
	t.Helper()
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var p apitypes.ProblemDetails
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p), w.Body.String())
	return p
}

// TestAPI_MintClaimTransfer_Flow 测试铸造、锁定、认领、转移的HTTP流程
func TestAPI_MintClaimTransfer_Flow(t *testing.T) {
	api := newTestAPI(t, nil)
	user := addr(api.user).Hex()

	// 非创作者无支付 → 403
	w := api.do(api.signed(api.user, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "xxyyzz"}))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "REGISTRY_UNAUTHORIZED", decodeProblem(t, w).Code)

	// 支付不足 → 402
	w = api.do(api.signed(api.user, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "xxyyzz", ValueEther: "0.10"}))
	require.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Equal(t, "REGISTRY_INSUFFICIENT_FEE", decodeProblem(t, w).Code)

	// 支付足额 → 201
	w = api.do(api.signed(api.user, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "xxyyzz", Value: "150000000000000000"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var minted httptypes.MintResponse
	decodeData(t, w, &minted)
	assert.Equal(t, uint64(1), minted.TokenID)
	assert.Equal(t, "ipfs://xxyyzz", minted.TokenURI)

	var view httptypes.TokenView
	decodeData(t, api.get("/api/v1/tokens/1"), &view)
	assert.True(t, view.Locked, "铸造后应锁定")
	assert.Equal(t, addr(api.user), view.MintOwner)

	// 锁定状态下转移 → 409
	w = api.do(api.signed(api.user, http.MethodPost, "/api/v1/tokens/1/transfer", httptypes.TransferRequest{To: addr(api.other).Hex()}))
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REGISTRY_TRANSFER_RESTRICTED", decodeProblem(t, w).Code)

	// 非锁定者认领 → 403
	w = api.do(api.signed(api.other, http.MethodPost, "/api/v1/tokens/1/claim", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "REGISTRY_NOT_MINT_OWNER", decodeProblem(t, w).Code)

	// 认领 → 200
	w = api.do(api.signed(api.user, http.MethodPost, "/api/v1/tokens/1/claim", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var balance httptypes.BalanceResponse
	decodeData(t, api.get("/api/v1/accounts/"+user+"/balance"), &balance)
	assert.Equal(t, uint64(1), balance.Balance)

	// 转移 → 200
	w = api.do(api.signed(api.user, http.MethodPost, "/api/v1/tokens/1/transfer", httptypes.TransferRequest{To: addr(api.other).Hex()}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &view)
	assert.Equal(t, addr(api.other), view.Owner)
	assert.False(t, view.Locked)

	var owner httptypes.AddressResponse
	decodeData(t, api.get("/api/v1/tokens/1/owner"), &owner)
	assert.Equal(t, addr(api.other), owner.Address)
}

// TestAPI_FailedWrite_ResubmittedInSameSecond 失败的写请求可以在同一秒内重新提交
func TestAPI_FailedWrite_ResubmittedInSameSecond(t *testing.T) {
	api := newTestAPI(t, nil)
	ts := time.Now().Unix()
	transfer := httptypes.TransferRequest{To: addr(api.other).Hex()}

	w := api.do(api.signedAt(api.admin, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "xxyyzz"}, ts))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(api.signedAt(api.admin, http.MethodPost, "/api/v1/tokens/1/transfer", transfer, ts))
	require.Equal(t, http.StatusConflict, w.Code)

	w = api.do(api.signedAt(api.admin, http.MethodPost, "/api/v1/tokens/1/claim", nil, ts))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 相同方法、路径、时间戳和请求体，仅 nonce 不同
	w = api.do(api.signedAt(api.admin, http.MethodPost, "/api/v1/tokens/1/transfer", transfer, ts))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

// TestAPI_ReadErrors 测试只读接口的错误映射
func TestAPI_ReadErrors(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.get("/api/v1/tokens/99")
	require.Equal(t, http.StatusNotFound, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "REGISTRY_TOKEN_NOT_FOUND", p.Code)
	assert.Equal(t, "/api/v1/tokens/99", p.Instance)
	assert.NotEmpty(t, p.TraceID)

	w = api.get("/api/v1/tokens/abc")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apitypes.CodeCommonValidationError, decodeProblem(t, w).Code)

	w = api.get("/api/v1/accounts/not-an-address/balance")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// TestAPI_Signature_Rejections 测试签名校验失败的各种情况
func TestAPI_Signature_Rejections(t *testing.T) {
	api := newTestAPI(t, nil)
	body := httptypes.MintRequest{URI: "abc"}

	t.Run("缺少签名", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewReader(encodeBody(t, body)))
		req.Header.Set(signature.HeaderAddress, addr(api.admin).Hex())
		w := api.do(req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apitypes.CodeAuthMissingSignature, decodeProblem(t, w).Code)
	})

	t.Run("冒用他人地址", func(t *testing.T) {
		req := api.signed(api.user, http.MethodPost, "/api/v1/tokens", body)
		req.Header.Set(signature.HeaderAddress, addr(api.admin).Hex())
		w := api.do(req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apitypes.CodeAuthInvalidSignature, decodeProblem(t, w).Code)
	})

	t.Run("篡改请求体", func(t *testing.T) {
		req := api.signed(api.admin, http.MethodPost, "/api/v1/tokens", body)
		req.Body = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(encodeBody(t, httptypes.MintRequest{URI: "evil"}))).Body
		req.ContentLength = -1
		w := api.do(req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("时间戳过期", func(t *testing.T) {
		req := api.signedAt(api.admin, http.MethodPost, "/api/v1/tokens", body, time.Now().Add(-time.Hour).Unix())
		w := api.do(req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apitypes.CodeAuthTimestampSkew, decodeProblem(t, w).Code)
	})

	t.Run("缺少nonce", func(t *testing.T) {
		req := api.signed(api.admin, http.MethodPost, "/api/v1/tokens", body)
		req.Header.Del(signature.HeaderNonce)
		w := api.do(req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apitypes.CodeAuthMissingSignature, decodeProblem(t, w).Code)
	})

	t.Run("替换nonce", func(t *testing.T) {
		req := api.signed(api.admin, http.MethodPost, "/api/v1/tokens", body)
		req.Header.Set(signature.HeaderNonce, uuid.NewString())
		w := api.do(req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apitypes.CodeAuthInvalidSignature, decodeProblem(t, w).Code)
	})

	t.Run("重放签名", func(t *testing.T) {
		first := api.signed(api.admin, http.MethodPost, "/api/v1/tokens", body)
		replayed := first.Clone(context.Background())
		replayed.Body = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(encodeBody(t, body))).Body

		require.Equal(t, http.StatusCreated, api.do(first).Code)
		w := api.do(replayed)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apitypes.CodeAuthReplayed, decodeProblem(t, w).Code)
	})

	t.Run("请求体包含私钥", func(t *testing.T) {
		w := api.do(api.signed(api.admin, http.MethodPost, "/api/v1/tokens", map[string]string{
			"uri":         "abc",
			"private_key": "0xdeadbeef",
		}))
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, apitypes.CodeAuthPrivateKeyInBody, decodeProblem(t, w).Code)
	})
}

// TestAPI_SignatureDisabled_TrustsAddressHeader 测试关闭签名时信任地址请求头
func TestAPI_SignatureDisabled_TrustsAddressHeader(t *testing.T) {
	api := newTestAPI(t, func(o *apiconfig.APIOptions) { o.Signature.Required = false })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewReader(encodeBody(t, httptypes.MintRequest{URI: "abc"})))
	req.Header.Set(signature.HeaderAddress, addr(api.admin).Hex())
	w := api.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 地址请求头仍然必填
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewReader(encodeBody(t, httptypes.MintRequest{URI: "abc"})))
	w = api.do(req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apitypes.CodeAuthMissingAddress, decodeProblem(t, w).Code)
}

// TestAPI_Admin_Operations 测试管理接口与注册表状态
func TestAPI_Admin_Operations(t *testing.T) {
	api := newTestAPI(t, nil)
	user := addr(api.user).Hex()

	// 非管理员设置创作者 → 403
	w := api.do(api.signed(api.user, http.MethodPut, "/api/v1/admin/creators/"+user, httptypes.CreatorRequest{Enabled: true}))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "REGISTRY_NOT_ADMIN", decodeProblem(t, w).Code)

	w = api.do(api.signed(api.admin, http.MethodPut, "/api/v1/admin/creators/"+user, httptypes.CreatorRequest{Enabled: true}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var flag httptypes.FlagResponse
	decodeData(t, api.get("/api/v1/accounts/"+user+"/creator"), &flag)
	assert.True(t, flag.Value, "应该成为创作者")

	// 创作者免费铸造
	w = api.do(api.signed(api.user, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "creator-token"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 调整铸造费
	w = api.do(api.signed(api.admin, http.MethodPut, "/api/v1/admin/fee", httptypes.FeeRequest{FeeEther: "0.2"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(api.signed(api.admin, http.MethodPut, "/api/v1/admin/fee", httptypes.FeeRequest{}))
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 非创作者付费铸造后提取
	w = api.do(api.signed(api.other, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "paid", ValueEther: "0.2"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var info httptypes.RegistryResponse
	decodeData(t, api.get("/api/v1/registry"), &info)
	assert.Equal(t, uint64(2), info.TotalSupply)
	assert.Equal(t, "0.2", info.PublicFee.Ether)
	assert.Equal(t, "200000000000000000", info.CollectedFees.Wei)
	assert.Equal(t, addr(api.admin), info.Admin)
	assert.Contains(t, info.Creators, addr(api.user))

	w = api.do(api.signed(api.admin, http.MethodPost, "/api/v1/admin/withdraw", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var withdrawn httptypes.AmountResponse
	decodeData(t, w, &withdrawn)
	assert.Equal(t, "0.2", withdrawn.Ether)

	decodeData(t, api.get("/api/v1/registry"), &info)
	assert.Equal(t, "0", info.CollectedFees.Wei, "提取后已收取费用应清零")
}

// TestAPI_Events_Paging 测试事件日志分页
func TestAPI_Events_Paging(t *testing.T) {
	api := newTestAPI(t, nil)
	for i := 0; i < 3; i++ {
		w := api.do(api.signed(api.admin, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "t" + strconv.Itoa(i)}))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var page httptypes.EventPage
	decodeData(t, api.get("/api/v1/events?limit=2"), &page)
	require.Len(t, page.Events, 2)
	assert.Equal(t, types.EventTransfer, page.Events[0].Kind)
	assert.Equal(t, uint64(3), page.NextFrom)

	decodeData(t, api.get("/api/v1/events?from=3&limit=2"), &page)
	require.Len(t, page.Events, 1)
	assert.Equal(t, uint64(3), page.Events[0].TokenID)

	w := api.get("/api/v1/events?limit=5000")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

// TestAPI_Upload_ThenMint 测试上传元数据后用定位符铸造
func TestAPI_Upload_ThenMint(t *testing.T) {
	api := newTestAPI(t, nil)

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.Black)
	require.NoError(t, png.Encode(&buf, img))

	req := types.UploadRequest{
		ImageDataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Metadata: types.WatchMetadata{
			Name:     "Rolex Submariner",
			Serial:   "SN-12345",
			Model:    "116610LN",
			Year:     2020,
			Case:     "Oystersteel",
			FileType: "image/png",
			FileName: "front.png",
		},
	}
	w := api.do(api.signed(api.admin, http.MethodPost, "/api/v1/uploads", req))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result types.UploadResult
	decodeData(t, w, &result)
	require.NotEmpty(t, result.Locator)

	w = api.get("/api/v1/uploads/" + result.Locator)
	require.Equal(t, http.StatusOK, w.Code)
	var doc types.NFTMetadataDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "Rolex Submariner", doc.Name)
	assert.Equal(t, result.ImageURL, doc.Image)

	w = api.get("/api/v1/uploads/" + result.ImageCID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, buf.Bytes(), w.Body.Bytes())

	w = api.do(api.signed(api.admin, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: result.Locator}))
	require.Equal(t, http.StatusCreated, w.Code)
	var minted httptypes.MintResponse
	decodeData(t, w, &minted)
	assert.Equal(t, "ipfs://"+result.Locator, minted.TokenURI)

	// 元数据校验失败 → 400 并携带字段详情
	req.Metadata.Name = "abc"
	w = api.do(api.signed(api.admin, http.MethodPost, "/api/v1/uploads", req))
	require.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, "UPLOAD_INVALID_METADATA", p.Code)
	assert.Contains(t, p.Details, "fields")
}

// TestAPI_RateLimit_Writes 测试写请求限流
func TestAPI_RateLimit_Writes(t *testing.T) {
	api := newTestAPI(t, func(o *apiconfig.APIOptions) { o.HTTP.RateLimitWritePerSecond = 1 })

	first := api.do(api.signed(api.admin, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "a"}))
	second := api.do(api.signed(api.admin, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: "b"}))

	assert.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, apitypes.CodeCommonRateLimited, decodeProblem(t, second).Code)

	// 读请求不受写限流影响
	assert.Equal(t, http.StatusOK, api.get("/api/v1/registry").Code)
}

// TestAPI_BodyLimit 测试请求体大小限制
func TestAPI_BodyLimit(t *testing.T) {
	api := newTestAPI(t, func(o *apiconfig.APIOptions) { o.HTTP.MaxRequestSize = 64 })

	w := api.do(api.signed(api.admin, http.MethodPost, "/api/v1/tokens", httptypes.MintRequest{URI: string(bytes.Repeat([]byte("x"), 128))}))

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, apitypes.CodeCommonPayloadTooLarge, decodeProblem(t, w).Code)
}

// TestAPI_HealthAndMetrics 测试健康检查与指标端点
func TestAPI_HealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, nil)

	var health httptypes.HealthResponse
	decodeData(t, api.get("/health"), &health)
	assert.Equal(t, "healthy", health.Status)

	assert.Equal(t, http.StatusOK, api.get("/health/live").Code)

	w := api.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unicus_api_requests_total")
}

// TestAPI_RequestID_Propagated 测试请求ID回写
func TestAPI_RequestID_Propagated(t *testing.T) {
	api := newTestAPI(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/registry", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := api.do(req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"requestId":"req-123"`)
}

// TestServer_StartStop 测试服务器监听与优雅关闭
func TestServer_StartStop(t *testing.T) {
	api := newTestAPI(t, nil)
	opts := testAPIOptions()
	opts.HTTP.Host = "127.0.0.1"
	opts.HTTP.Port = 0

	server := NewServer(api.router, opts, infralog.GetLogger())
	require.NoError(t, server.Start())
	defer func() { _ = server.Stop(context.Background()) }()

	resp, err := http.Get("http://" + server.Addr() + "/health/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
