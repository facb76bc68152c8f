package registry

import (
	"errors"
)

// Kind 注册表错误类别
//
// 所有类别都是终态错误：同步返回、不重试，失败操作的全部写入被丢弃。
type Kind int

const (
	// KindInternal 存储或编解码等内部错误
	KindInternal Kind = iota
	// KindAuthorization 调用者无权执行该操作
	KindAuthorization
	// KindPayment 支付金额不足
	KindPayment
	// KindNotFound 代币不存在
	KindNotFound
	// KindTransferRestricted 代币仍处于铸造锁定状态
	KindTransferRestricted
	// KindInvalidArgument 参数格式错误
	KindInvalidArgument
)

// String 返回类别名称
func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindPayment:
		return "payment"
	case KindNotFound:
		return "not_found"
	case KindTransferRestricted:
		return "transfer_restricted"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Error 注册表业务错误
//
// 消息文本会原样返回给调用方，错误码用于HTTP问题详情和指标标签。
type Error struct {
	kind Kind
	code string
	msg  string
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{kind: kind, code: code, msg: msg}
}

// Error 实现error接口
func (e *Error) Error() string { return e.msg }

// Kind 返回错误类别
func (e *Error) Kind() Kind { return e.kind }

// ErrorCode 返回稳定的错误码
func (e *Error) ErrorCode() string { return e.code }

// 预定义错误
var (
	// ErrUnauthorized 非创作者未附带支付
	ErrUnauthorized = newError(KindAuthorization, "REGISTRY_UNAUTHORIZED", "UW: Unauthorized")
	// ErrInsufficientFee 非创作者支付金额低于 PublicFee
	ErrInsufficientFee = newError(KindPayment, "REGISTRY_INSUFFICIENT_FEE", "UW: Insufficient fee")
	// ErrTokenNotFound 代币不存在
	ErrTokenNotFound = newError(KindNotFound, "REGISTRY_TOKEN_NOT_FOUND", "ERC721: invalid token ID")
	// ErrNotMintOwner 调用者不是锁定者，或代币已被认领
	ErrNotMintOwner = newError(KindAuthorization, "REGISTRY_NOT_MINT_OWNER", "UW: caller is not mint owner")
	// ErrTransferRestricted 代币认领前不可转移
	ErrTransferRestricted = newError(KindTransferRestricted, "REGISTRY_TRANSFER_RESTRICTED", "UW: token is locked until claimed")
	// ErrNotOwner from 不是当前持有者
	ErrNotOwner = newError(KindAuthorization, "REGISTRY_NOT_OWNER", "ERC721: transfer from incorrect owner")
	// ErrNotApproved 调用者既不是持有者也未被授权
	ErrNotApproved = newError(KindAuthorization, "REGISTRY_NOT_APPROVED", "ERC721: caller is not token owner or approved")
	// ErrInvalidRecipient 接收方为零地址
	ErrInvalidRecipient = newError(KindInvalidArgument, "REGISTRY_INVALID_RECIPIENT", "ERC721: transfer to the zero address")
	// ErrNotAdmin 调用者不是管理员
	ErrNotAdmin = newError(KindAuthorization, "REGISTRY_NOT_ADMIN", "UW: caller is not admin")
	// ErrInvalidArgument 其他参数错误
	ErrInvalidArgument = newError(KindInvalidArgument, "REGISTRY_INVALID_ARGUMENT", "UW: invalid argument")
)

// KindOf 返回错误链中第一个注册表错误的类别，非注册表错误返回 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// CodeOf 返回错误链中注册表错误的错误码
func CodeOf(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.code, true
	}
	return "", false
}
