package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
)

// ClaimMintedToken 铸造者认领代币，解除转移锁定
//
// 认领不改变持有者，只把锁定状态置为 Unlocked 并计入持有者余额。
// 代币已被认领时调用者不再是锁定者，返回 ErrNotMintOwner。
func (s *Service) ClaimMintedToken(ctx context.Context, caller common.Address, tokenID uint64) error {
	err := s.execute(ctx, "claim", func(l *ledgerTx) error {
		return l.claim(caller, tokenID)
	})
	if err == nil && s.logger != nil {
		s.logger.Infof("🔓 代币已认领: id=%d by=%s", tokenID, caller.Hex())
	}
	return err
}

// ClaimAndTransfer 在同一事务内认领并转出代币
//
// 任一步失败则两步都不生效。
func (s *Service) ClaimAndTransfer(ctx context.Context, caller, to common.Address, tokenID uint64) error {
	err := s.execute(ctx, "claim_and_transfer", func(l *ledgerTx) error {
		if err := l.claim(caller, tokenID); err != nil {
			return err
		}
		return l.transfer(caller, caller, to, tokenID)
	})
	if err == nil && s.logger != nil {
		s.logger.Infof("🔓 代币已认领并转出: id=%d from=%s to=%s", tokenID, caller.Hex(), to.Hex())
	}
	return err
}

func (l *ledgerTx) claim(caller common.Address, tokenID uint64) error {
	tok, err := l.getToken(tokenID)
	if err != nil {
		return err
	}
	if !tok.IsLocked() || tok.MintOwner() != caller {
		return ErrNotMintOwner
	}

	claimed := *tok
	claimed.Lock = types.Unlocked{}
	if err := l.putToken(&claimed); err != nil {
		return err
	}
	if err := l.adjustBalance(claimed.Owner, true); err != nil {
		return err
	}
	return l.emit(types.RegistryEvent{
		Kind:    types.EventTokenClaimed,
		From:    caller,
		TokenID: tokenID,
	})
}
