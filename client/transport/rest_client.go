// Package transport provides the signing REST client for the registry node.
package transport

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	httptypes "github.com/unicus/v1/internal/api/http/types"
	apitypes "github.com/unicus/v1/internal/api/types"
	"github.com/unicus/v1/internal/core/infrastructure/crypto/signature"
	"github.com/unicus/v1/pkg/types"
)

// apiPrefix 节点API路径前缀
const apiPrefix = "/api/v1"

// defaultTimeout 默认请求超时
const defaultTimeout = 30 * time.Second

// ErrNoKey 写操作需要私钥
var ErrNoKey = fmt.Errorf("写操作需要私钥，请通过 --key 指定密钥文件")

// APIError 节点返回的错误响应
type APIError struct {
	Status  int
	Problem apitypes.ProblemDetails
}

func (e *APIError) Error() string {
	if e.Problem.Code != "" {
		return fmt.Sprintf("http %d %s: %s", e.Status, e.Problem.Code, e.Problem.Detail)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Problem.Detail)
}

// Client 注册表节点 REST 客户端
// 写请求按节点的签名规则附带地址、时间戳与签名请求头
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	key        *ecdsa.PrivateKey
	address    common.Address
	now        func() time.Time
}

// NewClient 创建客户端，key 为空时只能执行读操作
func NewClient(endpoint string, key *ecdsa.PrivateKey, timeout time.Duration) (*Client, error) {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("无效的节点地址 %q", endpoint)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		key: key,
		now: time.Now,
	}
	if key != nil {
		c.address = crypto.PubkeyToAddress(key.PublicKey)
	}
	return c, nil
}

// Address 返回签名地址，无私钥时为零地址
func (c *Client) Address() common.Address {
	return c.address
}

// endpoint 拼接完整请求地址
func (c *Client) endpoint(path string, query url.Values) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + apiPrefix + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return &u
}

// get 发送GET请求
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query).String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

// send 发送签名的JSON写请求
func (c *Client) send(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var raw []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		raw = data
	}
	return c.sendRaw(ctx, method, path, raw, "application/json", out)
}

// sendRaw 对原始请求体签名并发送
func (c *Client) sendRaw(ctx context.Context, method, path string, raw []byte, contentType string, out interface{}) error {
	if c.key == nil {
		return ErrNoKey
	}

	u := c.endpoint(path, nil)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	ts := c.now().Unix()
	nonce := uuid.NewString()
	sig, err := signature.SignRequest(c.key, method, u.Path, ts, nonce, raw)
	if err != nil {
		return err
	}
	req.Header.Set(signature.HeaderAddress, c.address.Hex())
	req.Header.Set(signature.HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(signature.HeaderSignature, sig)
	req.Header.Set(signature.HeaderNonce, nonce)

	return c.do(req, out)
}

// do 执行请求并解析成功响应中的 data 字段
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(body, &apiErr.Problem) != nil || apiErr.Problem.Detail == "" {
			apiErr.Problem.Detail = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// ===== 代币 =====

// Mint 铸造代币，valueWei 为空时不附带付款
func (c *Client) Mint(ctx context.Context, uri, valueWei string) (*httptypes.MintResponse, error) {
	var out httptypes.MintResponse
	err := c.send(ctx, http.MethodPost, "/tokens", &httptypes.MintRequest{URI: uri, Value: valueWei}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Claim 认领铸造给自己的代币
func (c *Client) Claim(ctx context.Context, tokenID uint64) (*httptypes.TokenView, error) {
	var out httptypes.TokenView
	if err := c.send(ctx, http.MethodPost, tokenPath(tokenID, "/claim"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transfer 转移代币，from 非零时按授权转移处理
func (c *Client) Transfer(ctx context.Context, tokenID uint64, from, to common.Address) (*httptypes.TokenView, error) {
	req := &httptypes.TransferRequest{To: to.Hex()}
	if from != (common.Address{}) {
		req.From = from.Hex()
	}
	var out httptypes.TokenView
	if err := c.send(ctx, http.MethodPost, tokenPath(tokenID, "/transfer"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClaimAndTransfer 认领并转出
func (c *Client) ClaimAndTransfer(ctx context.Context, tokenID uint64, to common.Address) (*httptypes.TokenView, error) {
	var out httptypes.TokenView
	req := &httptypes.ClaimTransferRequest{To: to.Hex()}
	if err := c.send(ctx, http.MethodPost, tokenPath(tokenID, "/claim-transfer"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Approve 单币授权，approved 为零地址时清除授权
func (c *Client) Approve(ctx context.Context, tokenID uint64, approved common.Address) (*httptypes.TokenView, error) {
	var out httptypes.TokenView
	req := &httptypes.ApproveRequest{Approved: approved.Hex()}
	if err := c.send(ctx, http.MethodPost, tokenPath(tokenID, "/approve"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetApprovalForAll 设置或撤销操作员
func (c *Client) SetApprovalForAll(ctx context.Context, operator common.Address, approved bool) error {
	req := &httptypes.OperatorRequest{Operator: operator.Hex(), Approved: approved}
	return c.send(ctx, http.MethodPost, "/operators", req, &httptypes.FlagResponse{})
}

// Token 查询代币详情
func (c *Client) Token(ctx context.Context, tokenID uint64) (*httptypes.TokenView, error) {
	var out httptypes.TokenView
	if err := c.get(ctx, tokenPath(tokenID, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TokenURI 查询代币元数据地址
func (c *Client) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	var out httptypes.URIResponse
	if err := c.get(ctx, tokenPath(tokenID, "/uri"), nil, &out); err != nil {
		return "", err
	}
	return out.TokenURI, nil
}

// ===== 账户 =====

// BalanceOf 查询持有数量
func (c *Client) BalanceOf(ctx context.Context, owner common.Address) (uint64, error) {
	var out httptypes.BalanceResponse
	if err := c.get(ctx, "/accounts/"+owner.Hex()+"/balance", nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

// IsCreator 查询创作者资格
func (c *Client) IsCreator(ctx context.Context, addr common.Address) (bool, error) {
	var out httptypes.FlagResponse
	if err := c.get(ctx, "/accounts/"+addr.Hex()+"/creator", nil, &out); err != nil {
		return false, err
	}
	return out.Value, nil
}

// ===== 注册表 =====

// Info 查询注册表概况
func (c *Client) Info(ctx context.Context) (*httptypes.RegistryResponse, error) {
	var out httptypes.RegistryResponse
	if err := c.get(ctx, "/registry", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Events 分页读取事件日志
func (c *Client) Events(ctx context.Context, from uint64, limit int) (*httptypes.EventPage, error) {
	query := url.Values{}
	query.Set("from", strconv.FormatUint(from, 10))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out httptypes.EventPage
	if err := c.get(ctx, "/events", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetCreator 管理员设置创作者资格
func (c *Client) SetCreator(ctx context.Context, creator common.Address, enabled bool) error {
	return c.send(ctx, http.MethodPut, "/admin/creators/"+creator.Hex(), &httptypes.CreatorRequest{Enabled: enabled}, &httptypes.FlagResponse{})
}

// SetPublicFee 管理员设置铸造费，feeEther 为以ether计的十进制字符串
func (c *Client) SetPublicFee(ctx context.Context, feeEther string) (*httptypes.AmountResponse, error) {
	var out httptypes.AmountResponse
	if err := c.send(ctx, http.MethodPut, "/admin/fee", &httptypes.FeeRequest{FeeEther: feeEther}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WithdrawFees 管理员提取累计铸造费，to 为零地址时提取到管理员
func (c *Client) WithdrawFees(ctx context.Context, to common.Address) (*httptypes.AmountResponse, error) {
	req := &httptypes.WithdrawRequest{}
	if to != (common.Address{}) {
		req.To = to.Hex()
	}
	var out httptypes.AmountResponse
	if err := c.send(ctx, http.MethodPost, "/admin/withdraw", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ===== 上传 =====

// Upload 以 multipart 上传图片与手表元数据
func (c *Client) Upload(ctx context.Context, image []byte, metadata types.WatchMetadata) (*types.UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	meta, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	if err := w.WriteField("metadata", string(meta)); err != nil {
		return nil, err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, metadata.FileName))
	h.Set("Content-Type", metadata.FileType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out types.UploadResult
	if err := c.sendRaw(ctx, http.MethodPost, "/uploads", buf.Bytes(), w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func tokenPath(tokenID uint64, suffix string) string {
	return "/tokens/" + strconv.FormatUint(tokenID, 10) + suffix
}
