// Package signature 提供请求签名与签名者恢复
//
// 写请求使用 EIP-191 personal_sign 对规范化的请求摘要签名：
//
//	METHOD\nPATH\nTIMESTAMP\nNONCE\nhex(keccak256(body))
//
// 每个请求使用新的 nonce，同一秒内重新提交相同请求也会得到不同签名。
// 服务端用 SigToPub 恢复签名者地址并与请求头中的地址比对。
// CLI 与 HTTP 中间件共用本包，保证两端的签名格式一致。
package signature

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// 错误定义
var (
	ErrInvalidSignature       = errors.New("无效的签名")
	ErrInvalidSignatureFormat = errors.New("无效的签名格式")
	ErrInvalidRecoveryID      = errors.New("无效的恢复ID")
	ErrSignerMismatch         = errors.New("签名者与声明地址不一致")
)

const (
	// RecoverableSignatureLength r+s+v (可恢复签名)
	RecoverableSignatureLength = 65

	// 请求头
	HeaderAddress   = "X-Unicus-Address"
	HeaderTimestamp = "X-Unicus-Timestamp"
	HeaderSignature = "X-Unicus-Signature"
	HeaderNonce     = "X-Unicus-Nonce"

	// MaxNonceLength nonce 请求头的最大长度
	MaxNonceLength = 64
)

// RequestDigest 构造待签名的请求摘要
func RequestDigest(method, path string, timestamp int64, nonce string, body []byte) []byte {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(method))
	sb.WriteByte('\n')
	sb.WriteString(path)
	sb.WriteByte('\n')
	sb.WriteString(strconv.FormatInt(timestamp, 10))
	sb.WriteByte('\n')
	sb.WriteString(nonce)
	sb.WriteByte('\n')
	sb.WriteString(hexutil.Encode(crypto.Keccak256(body)))
	return []byte(sb.String())
}

// SignRequest 使用私钥对请求签名，返回 0x 前缀的十六进制签名（V 为 27/28）
func SignRequest(key *ecdsa.PrivateKey, method, path string, timestamp int64, nonce string, body []byte) (string, error) {
	hash := accounts.TextHash(RequestDigest(method, path, timestamp, nonce, body))
	sig, err := crypto.Sign(hash, key)
	if err != nil {
		return "", fmt.Errorf("请求签名失败: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// RecoverSigner 从签名恢复签名者地址
// 同时接受 V=0/1 与 V=27/28 两种编码
func RecoverSigner(method, path string, timestamp int64, nonce string, body []byte, sigHex string) (common.Address, error) {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignatureFormat, err)
	}
	if len(sig) != RecoverableSignatureLength {
		return common.Address{}, fmt.Errorf("%w: 长度 %d", ErrInvalidSignatureFormat, len(sig))
	}

	v := sig[crypto.RecoveryIDOffset]
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return common.Address{}, ErrInvalidRecoveryID
	}
	sig[crypto.RecoveryIDOffset] = v

	hash := accounts.TextHash(RequestDigest(method, path, timestamp, nonce, body))
	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// VerifyRequest 校验签名者是否为声明地址
func VerifyRequest(claimed common.Address, method, path string, timestamp int64, nonce string, body []byte, sigHex string) error {
	signer, err := RecoverSigner(method, path, timestamp, nonce, body, sigHex)
	if err != nil {
		return err
	}
	if signer != claimed {
		return fmt.Errorf("%w: signer=%s claimed=%s", ErrSignerMismatch, signer.Hex(), claimed.Hex())
	}
	return nil
}

// SignatureID 签名的唯一标识，用于防重放
// 归一化 V 值，避免 0/1 与 27/28 两种编码绕过防重放
func SignatureID(sigHex string) string {
	sig, err := hexutil.Decode(sigHex)
	if err != nil {
		return strings.ToLower(sigHex)
	}
	if len(sig) == RecoverableSignatureLength && sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	return crypto.Keccak256Hash(sig).Hex()
}
