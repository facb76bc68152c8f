package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
)

// Approve 设置单币授权
//
// 持有者或其操作员可调用；approved 为零地址表示撤销。
// 锁定中的代币也可以授权，授权本身不会让代币在认领前转出。
func (s *Service) Approve(ctx context.Context, caller, approved common.Address, tokenID uint64) error {
	return s.execute(ctx, "approve", func(l *ledgerTx) error {
		tok, err := l.getToken(tokenID)
		if err != nil {
			return err
		}
		if approved == tok.Owner {
			return ErrInvalidArgument
		}
		if caller != tok.Owner {
			operator, err := l.isOperator(tok.Owner, caller)
			if err != nil {
				return err
			}
			if !operator {
				return ErrNotApproved
			}
		}

		updated := *tok
		updated.Approved = approved
		if err := l.putToken(&updated); err != nil {
			return err
		}
		return l.emit(types.RegistryEvent{
			Kind:    types.EventApproval,
			From:    tok.Owner,
			To:      approved,
			TokenID: tokenID,
		})
	})
}

// SetApprovalForAll 设置或撤销操作员授权
func (s *Service) SetApprovalForAll(ctx context.Context, caller, operator common.Address, approved bool) error {
	return s.execute(ctx, "set_approval_for_all", func(l *ledgerTx) error {
		if operator == caller || operator == (common.Address{}) {
			return ErrInvalidArgument
		}
		key := operatorKey(caller, operator)
		var err error
		if approved {
			err = l.tx.Set(key, []byte{1})
		} else {
			err = l.tx.Delete(key)
		}
		if err != nil {
			return err
		}
		return l.emit(types.RegistryEvent{
			Kind: types.EventApprovalForAll,
			From: caller,
			To:   operator,
			Flag: approved,
		})
	})
}

// GetApproved 返回单币授权地址
func (s *Service) GetApproved(ctx context.Context, tokenID uint64) (common.Address, error) {
	tok, err := s.loadToken(ctx, tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return tok.Approved, nil
}

// IsApprovedForAll 判断 operator 是否为 owner 的操作员
func (s *Service) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	return s.store.Exists(ctx, operatorKey(owner, operator))
}
