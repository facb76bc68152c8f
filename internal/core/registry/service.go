// Package registry 实现手表NFT代币注册表
//
// 🎯 **核心职责**：
// - 串行化账本：每个写操作持有写锁，并在单个 BadgerDB 事务内完成
// - 失败的前置检查丢弃该操作的全部写入
// - 事务提交后才刷新读缓存、发布事件
//
// 📋 **代币生命周期**：
//
//	Mint ──► Locked{By: minter} ──ClaimMintedToken──► Unlocked ──Transfer──► ...
//
// 锁定中的代币由注册表代为托管，不计入任何地址的 BalanceOf。
package registry

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	registryconfig "github.com/unicus/v1/internal/config/registry"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/event"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
	registryif "github.com/unicus/v1/pkg/interfaces/registry"
	"github.com/unicus/v1/pkg/types"
	"github.com/unicus/v1/pkg/utils/timeutil"
)

var (
	_ registryif.TokenRegistry = (*Service)(nil)
	_ metrics.MemoryReporter   = (*Service)(nil)
)

// approxTokenBytes 单条缓存代币记录的估算大小
const approxTokenBytes = 256

// Service 代币注册表服务
type Service struct {
	store    storage.BadgerStore
	eventBus event.EventBus // 可为nil
	logger   log.Logger     // 可为nil

	recorder metrics.OperationRecorder // 可为nil

	// mu 写操作互斥；读操作持读锁，避免旧记录在写入后回填缓存
	mu    sync.RWMutex
	cache *lru.Cache[uint64, *types.Token]

	supply atomic.Uint64 // 最近一次提交后的总供应量
	now    func() time.Time
}

// NewService 创建注册表服务
//
// 首次启动时按配置写入创世状态（管理员、创作者名单、铸造费），
// 之后启动只读取账本，配置中的这些字段被忽略。
func NewService(
	store storage.BadgerStore,
	eventBus event.EventBus,
	logger log.Logger,
	opts *registryconfig.RegistryOptions,
) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("BadgerStore不能为空")
	}
	if opts == nil {
		cfg, err := registryconfig.New(nil)
		if err != nil {
			return nil, err
		}
		opts = cfg.GetOptions()
	}

	size := opts.CacheSize
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[uint64, *types.Token](size)
	if err != nil {
		return nil, fmt.Errorf("创建代币缓存失败: %w", err)
	}

	s := &Service{
		store:    store,
		eventBus: eventBus,
		logger:   logger,
		cache:    cache,
		now:      timeutil.Now,
	}

	if err := s.initGenesis(context.Background(), opts); err != nil {
		return nil, err
	}
	return s, nil
}

// SetOperationRecorder 注入操作指标记录器（延迟注入，可为nil）
func (s *Service) SetOperationRecorder(r metrics.OperationRecorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorder = r
}

// initGenesis 账本首次初始化
func (s *Service) initGenesis(ctx context.Context, opts *registryconfig.RegistryOptions) error {
	var seeded bool
	err := s.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		initialized, err := tx.Exists(keyInitialized)
		if err != nil {
			return err
		}
		if initialized {
			return nil
		}

		l := newLedgerTx(tx, s.now().Unix())
		if err := tx.Set(keyAdmin, opts.Admin.Bytes()); err != nil {
			return err
		}
		fee := opts.PublicFee
		if fee == nil {
			fee = new(big.Int)
		}
		if err := l.setAmount(keyPublicFee, fee); err != nil {
			return err
		}
		// 管理员同时是创作者
		if opts.Admin != (common.Address{}) {
			if err := l.setCreator(opts.Admin, true); err != nil {
				return err
			}
		}
		for _, c := range opts.Creators {
			if err := l.setCreator(c, true); err != nil {
				return err
			}
		}
		seeded = true
		return tx.Set(keyInitialized, []byte{1})
	})
	if err != nil {
		return fmt.Errorf("初始化注册表账本失败: %w", err)
	}

	supply, err := s.readUint64(ctx, keyTotalSupply)
	if err != nil {
		return err
	}
	s.supply.Store(supply)

	if s.logger != nil {
		if seeded {
			s.logger.Infof("注册表创世完成: admin=%s creators=%d public_fee=%s",
				opts.Admin.Hex(), len(opts.Creators), opts.PublicFee)
		} else {
			s.logger.Infof("注册表已加载: total_supply=%d", supply)
		}
	}
	return nil
}

// execute 串行执行一次写操作
//
// fn 返回错误时事务回滚，返回值就是 fn 的错误本身（保持哨兵错误的原始消息）。
// 提交成功后刷新缓存并按顺序发布事件。
func (s *Service) execute(ctx context.Context, op string, fn func(l *ledgerTx) error) (err error) {
	start := time.Now()
	s.mu.Lock()
	recorder := s.recorder
	defer func() {
		s.mu.Unlock()
		if recorder != nil {
			recorder.ObserveOperation(op, err, time.Since(start))
		}
	}()

	var (
		l     *ledgerTx
		opErr error
	)
	txErr := s.store.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		l = newLedgerTx(tx, s.now().Unix())
		opErr = fn(l)
		return opErr
	})
	if opErr != nil {
		if s.logger != nil {
			s.logger.Debugf("注册表操作被拒绝: op=%s err=%v", op, opErr)
		}
		return opErr
	}
	if txErr != nil {
		if s.logger != nil {
			s.logger.Errorf("注册表操作提交失败: op=%s err=%v", op, txErr)
		}
		return fmt.Errorf("%s: %w", op, txErr)
	}

	s.afterCommit(l)
	return nil
}

// afterCommit 刷新缓存、更新供应量并发布事件
func (s *Service) afterCommit(l *ledgerTx) {
	for id, t := range l.tokens {
		s.cache.Add(id, t)
		if id > s.supply.Load() {
			s.supply.Store(id)
		}
	}
	if s.eventBus == nil {
		return
	}
	for _, ev := range l.events {
		s.eventBus.PublishRegistryEvent(ev)
	}
}

// readUint64 事务外读取计数器
func (s *Service) readUint64(ctx context.Context, key []byte) (uint64, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return decodeUint64(data)
}

// readAmount 事务外读取金额
func (s *Service) readAmount(ctx context.Context, key []byte) (*big.Int, error) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeAmount(data), nil
}

// loadToken 读取代币记录，优先命中缓存
func (s *Service) loadToken(ctx context.Context, id uint64) (*types.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.cache.Get(id); ok {
		return t, nil
	}
	if id == 0 {
		return nil, ErrTokenNotFound
	}
	data, err := s.store.Get(ctx, tokenKey(id))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrTokenNotFound
	}
	t, err := decodeToken(id, data)
	if err != nil {
		return nil, err
	}
	s.cache.Add(id, t)
	return t, nil
}

// ==================== 内存上报 ====================

// ModuleName 实现 MemoryReporter
func (s *Service) ModuleName() string {
	return "registry"
}

// CollectMemoryStats 实现 MemoryReporter
func (s *Service) CollectMemoryStats() metrics.ModuleMemoryStats {
	items := int64(s.cache.Len())
	return metrics.ModuleMemoryStats{
		Module:      "registry",
		Objects:     int64(s.supply.Load()),
		ApproxBytes: items * approxTokenBytes,
		CacheItems:  items,
	}
}
