package registry

import (
	"bytes"
	"context"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/unicus/v1/pkg/types"
)

// IsCreator 实现 CreatorSet
func (s *Service) IsCreator(ctx context.Context, addr common.Address) (bool, error) {
	return s.store.Exists(ctx, creatorKey(addr))
}

// SetCreator 管理员增删创作者
func (s *Service) SetCreator(ctx context.Context, caller, creator common.Address, enabled bool) error {
	err := s.execute(ctx, "set_creator", func(l *ledgerTx) error {
		if err := l.requireAdmin(caller); err != nil {
			return err
		}
		if creator == (common.Address{}) {
			return ErrInvalidArgument
		}
		if err := l.setCreator(creator, enabled); err != nil {
			return err
		}
		return l.emit(types.RegistryEvent{
			Kind: types.EventCreatorUpdated,
			From: caller,
			To:   creator,
			Flag: enabled,
		})
	})
	if err == nil && s.logger != nil {
		s.logger.Infof("创作者名单已更新: creator=%s enabled=%v", creator.Hex(), enabled)
	}
	return err
}

// ListCreators 列出当前全部创作者，按地址字节升序
func (s *Service) ListCreators(ctx context.Context) ([]common.Address, error) {
	entries, err := s.store.PrefixScan(ctx, prefixCreator)
	if err != nil {
		return nil, err
	}
	out := make([]common.Address, 0, len(entries))
	for k := range entries {
		out = append(out, common.BytesToAddress([]byte(k)[len(prefixCreator):]))
	}
	slices.SortFunc(out, func(a, b common.Address) int {
		return bytes.Compare(a.Bytes(), b.Bytes())
	})
	return out, nil
}
