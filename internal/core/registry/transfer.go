package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
)

// Transfer 把代币从当前持有者转给 to
func (s *Service) Transfer(ctx context.Context, caller, to common.Address, tokenID uint64) error {
	return s.execute(ctx, "transfer", func(l *ledgerTx) error {
		tok, err := l.getToken(tokenID)
		if err != nil {
			return err
		}
		return l.transfer(caller, tok.Owner, to, tokenID)
	})
}

// TransferFrom 把代币从 from 转给 to
//
// 检查顺序：代币存在 → 未锁定 → from 是持有者 → 调用者有权 → 接收方非零地址。
// 锁定中的代币无论授权情况如何都不可转移。
func (s *Service) TransferFrom(ctx context.Context, caller, from, to common.Address, tokenID uint64) error {
	return s.execute(ctx, "transfer", func(l *ledgerTx) error {
		return l.transfer(caller, from, to, tokenID)
	})
}

func (l *ledgerTx) transfer(caller, from, to common.Address, tokenID uint64) error {
	tok, err := l.getToken(tokenID)
	if err != nil {
		return err
	}
	if tok.IsLocked() {
		return ErrTransferRestricted
	}
	if tok.Owner != from {
		return ErrNotOwner
	}
	if err := l.checkSpender(tok, caller); err != nil {
		return err
	}
	if to == (common.Address{}) {
		return ErrInvalidRecipient
	}

	moved := *tok
	moved.Owner = to
	moved.Approved = common.Address{}
	if err := l.putToken(&moved); err != nil {
		return err
	}
	if err := l.adjustBalance(from, false); err != nil {
		return err
	}
	if err := l.adjustBalance(to, true); err != nil {
		return err
	}
	return l.emit(types.RegistryEvent{
		Kind:    types.EventTransfer,
		From:    from,
		To:      to,
		TokenID: tokenID,
	})
}

// checkSpender 调用者必须是持有者、单币授权地址或持有者的操作员
func (l *ledgerTx) checkSpender(tok *types.Token, caller common.Address) error {
	if caller == tok.Owner {
		return nil
	}
	if tok.Approved != (common.Address{}) && caller == tok.Approved {
		return nil
	}
	operator, err := l.isOperator(tok.Owner, caller)
	if err != nil {
		return err
	}
	if operator {
		return nil
	}
	return ErrNotApproved
}
