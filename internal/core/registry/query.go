package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
)

// TokenURI 返回带 ipfs:// 前缀的代币URI
func (s *Service) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	tok, err := s.loadToken(ctx, tokenID)
	if err != nil {
		return "", err
	}
	return tok.FullURI(), nil
}

// Token 返回代币记录副本
func (s *Service) Token(ctx context.Context, tokenID uint64) (*types.Token, error) {
	tok, err := s.loadToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	cp := *tok
	return &cp, nil
}

// OwnerOf 返回代币持有者；锁定中的代币持有者即铸造者
func (s *Service) OwnerOf(ctx context.Context, tokenID uint64) (common.Address, error) {
	tok, err := s.loadToken(ctx, tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return tok.Owner, nil
}

// MintOwner 返回代币锁定者，已认领时为零地址
func (s *Service) MintOwner(ctx context.Context, tokenID uint64) (common.Address, error) {
	tok, err := s.loadToken(ctx, tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return tok.MintOwner(), nil
}

// BalanceOf 返回地址持有的已解锁代币数量
func (s *Service) BalanceOf(ctx context.Context, owner common.Address) (uint64, error) {
	return s.readUint64(ctx, balanceKey(owner))
}

// TotalSupply 返回已铸造代币总数
func (s *Service) TotalSupply(ctx context.Context) (uint64, error) {
	return s.readUint64(ctx, keyTotalSupply)
}
