package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
)

// Mint 铸造新代币
//
// 创作者免费铸造；非创作者必须附带不低于 PublicFee 的支付。
// 新代币的持有者和锁定者都是调用者，认领前不可转移。
// uri 按原样保存，TokenURI 只在读取时加上 ipfs:// 前缀。
func (s *Service) Mint(ctx context.Context, caller common.Address, uri string, payment *big.Int) (uint64, error) {
	var id uint64
	err := s.execute(ctx, "mint", func(l *ledgerTx) error {
		if payment != nil && payment.Sign() < 0 {
			return ErrInvalidArgument
		}

		creator, err := l.isCreator(caller)
		if err != nil {
			return err
		}
		if !creator {
			if payment == nil || payment.Sign() == 0 {
				return ErrUnauthorized
			}
			fee, err := l.getAmount(keyPublicFee)
			if err != nil {
				return err
			}
			if payment.Cmp(fee) < 0 {
				return ErrInsufficientFee
			}
		}

		supply, err := l.totalSupply()
		if err != nil {
			return err
		}
		id = supply + 1

		tok := &types.Token{
			ID:       id,
			Owner:    caller,
			URI:      uri,
			Lock:     types.Locked{By: caller},
			MintedAt: l.now,
		}
		if err := l.putToken(tok); err != nil {
			return err
		}
		if err := l.tx.Set(keyTotalSupply, encodeUint64(id)); err != nil {
			return err
		}

		if payment != nil && payment.Sign() > 0 {
			collected, err := l.getAmount(keyCollectedFees)
			if err != nil {
				return err
			}
			if err := l.setAmount(keyCollectedFees, collected.Add(collected, payment)); err != nil {
				return err
			}
		}

		return l.emit(types.RegistryEvent{
			Kind:    types.EventTransfer,
			To:      caller,
			TokenID: id,
		})
	})
	if err != nil {
		return 0, err
	}

	if s.logger != nil {
		s.logger.Infof("🪙 代币已铸造: id=%d owner=%s", id, caller.Hex())
	}
	return id, nil
}
