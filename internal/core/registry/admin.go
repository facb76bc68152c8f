package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
)

// SetPublicFee 管理员调整非创作者铸造费（wei）
func (s *Service) SetPublicFee(ctx context.Context, caller common.Address, fee *big.Int) error {
	return s.execute(ctx, "set_public_fee", func(l *ledgerTx) error {
		if err := l.requireAdmin(caller); err != nil {
			return err
		}
		if fee == nil || fee.Sign() < 0 {
			return ErrInvalidArgument
		}
		if err := l.setAmount(keyPublicFee, fee); err != nil {
			return err
		}
		return l.emit(types.RegistryEvent{
			Kind:   types.EventPublicFeeUpdated,
			From:   caller,
			Amount: new(big.Int).Set(fee),
		})
	})
}

// WithdrawFees 管理员提取全部已收取费用
//
// 账本只记录金额，资金的实际划转由调用方根据返回值完成。
func (s *Service) WithdrawFees(ctx context.Context, caller, to common.Address) (*big.Int, error) {
	var amount *big.Int
	err := s.execute(ctx, "withdraw_fees", func(l *ledgerTx) error {
		if err := l.requireAdmin(caller); err != nil {
			return err
		}
		if to == (common.Address{}) {
			return ErrInvalidRecipient
		}
		collected, err := l.getAmount(keyCollectedFees)
		if err != nil {
			return err
		}
		amount = collected
		if err := l.setAmount(keyCollectedFees, new(big.Int)); err != nil {
			return err
		}
		return l.emit(types.RegistryEvent{
			Kind:   types.EventFeesWithdrawn,
			From:   caller,
			To:     to,
			Amount: new(big.Int).Set(collected),
		})
	})
	if err != nil {
		return nil, err
	}
	if s.logger != nil {
		s.logger.Infof("💰 已提取铸造费: amount=%s to=%s", amount, to.Hex())
	}
	return amount, nil
}

// PublicFee 返回当前铸造费（wei）
func (s *Service) PublicFee(ctx context.Context) (*big.Int, error) {
	return s.readAmount(ctx, keyPublicFee)
}

// Info 返回注册表全局状态
func (s *Service) Info(ctx context.Context) (*types.RegistryInfo, error) {
	supply, err := s.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}
	fee, err := s.readAmount(ctx, keyPublicFee)
	if err != nil {
		return nil, err
	}
	collected, err := s.readAmount(ctx, keyCollectedFees)
	if err != nil {
		return nil, err
	}
	admin, err := s.store.Get(ctx, keyAdmin)
	if err != nil {
		return nil, err
	}
	return &types.RegistryInfo{
		TotalSupply:   supply,
		PublicFee:     fee,
		CollectedFees: collected,
		Admin:         common.BytesToAddress(admin),
	}, nil
}
