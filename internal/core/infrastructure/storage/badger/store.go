// Package badger 提供基于BadgerDB的存储实现
package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	badgerconfig "github.com/unicus/v1/internal/config/storage/badger"
	log "github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	interfaces "github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
	"github.com/unicus/v1/pkg/utils"
	"go.uber.org/zap"
)

// ErrStoreClosing 存储正在关闭时拒绝写入
var ErrStoreClosing = errors.New("badger store is closing")

var (
	_ interfaces.BadgerStore = (*Store)(nil)
	_ metrics.MemoryReporter = (*Store)(nil)
)

// Store 实现BadgerStore接口
type Store struct {
	db         *badgerdb.DB
	config     *badgerconfig.Config
	logger     log.Logger
	cancelFunc context.CancelFunc // 用于取消后台任务的函数

	// Close 之后的写入会触发 badger 内部断言退出进程，需先阻断
	closing atomic.Bool
	writeWg sync.WaitGroup
}

// New 创建新的BadgerStore实例
// 初始化数据库并启动维护任务
func New(config *badgerconfig.Config, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = nopLogger{}
	}
	if config == nil {
		config = badgerconfig.New(nil)
	}
	store := &Store{
		config: config,
		logger: logger,
	}

	var opts badgerdb.Options
	if config.IsInMemory() {
		logger.Info("🧠 使用内存BadgerDB（数据不持久化）")
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		dataDir := config.GetPath()
		if dataDir == "" {
			dataDir = utils.ResolveDataPath("./data/badger")
			logger.Warnf("BadgerDB数据目录路径未配置，使用默认路径: %s", dataDir)
		}
		logger.Infof("初始化BadgerDB存储，数据目录: %s", dataDir)

		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return nil, fmt.Errorf("无法创建BadgerDB数据目录: %w", err)
		}
		opts = badgerdb.DefaultOptions(dataDir)
		opts.SyncWrites = config.IsSyncWritesEnabled()
		// 降低 ValueLogFileSize 减少 mmap 虚拟地址占用
		opts.ValueLogFileSize = 256 << 20
	}

	if size := config.GetMemTableSize(); size > 0 {
		opts.MemTableSize = size
	}
	// 注册表数据量很小，统一使用较小的 block/index 缓存
	opts.BlockCacheSize = 32 << 20
	opts.IndexCacheSize = 16 << 20
	opts.NumMemtables = 2
	opts.NumCompactors = 2
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("打开BadgerDB失败: %w", err)
	}
	store.db = db

	// 启动维护例程（内存模式没有值日志文件，无需维护）
	ctx, cancel := context.WithCancel(context.Background())
	store.cancelFunc = cancel
	if !config.IsInMemory() && config.IsAutoCompactionEnabled() {
		store.StartMaintenanceRoutines(ctx)
	}

	logger.Info("BadgerDB存储初始化完成")
	return store, nil
}

// nopLogger 用于在测试或工具链等 logger 未注入时，避免 nil 指针崩溃。
type nopLogger struct{}

func (nopLogger) Debug(string)                   {}
func (nopLogger) Debugf(string, ...interface{})  {}
func (nopLogger) Info(string)                    {}
func (nopLogger) Infof(string, ...interface{})   {}
func (nopLogger) Warn(string)                    {}
func (nopLogger) Warnf(string, ...interface{})   {}
func (nopLogger) Error(string)                   {}
func (nopLogger) Errorf(string, ...interface{})  {}
func (nopLogger) Fatal(string)                   {}
func (nopLogger) Fatalf(string, ...interface{})  {}
func (nopLogger) With(...interface{}) log.Logger { return nopLogger{} }
func (nopLogger) Sync() error                    { return nil }
func (nopLogger) GetZapLogger() *zap.Logger      { return zap.NewNop() }

// closeWait 关闭时等待进行中写事务的上限
const closeWait = 30 * time.Second

// Close 阻断新的写入，等待进行中的写事务后关闭数据库
func (s *Store) Close() error {
	if !s.closing.CompareAndSwap(false, true) {
		return nil
	}
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	if s.db == nil {
		return nil
	}

	drained := make(chan struct{})
	go func() {
		s.writeWg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(closeWait):
		s.logger.Warnf("⚠️ 等待写事务超时（%s），继续关闭 BadgerDB", closeWait)
	}

	if err := s.db.Close(); err != nil {
		// 测试清理临时目录后 LOCK 文件可能已不存在
		if strings.Contains(err.Error(), "LOCK: no such file or directory") {
			s.logger.Warn("BadgerDB LOCK文件已不存在")
			return nil
		}
		return fmt.Errorf("关闭BadgerDB失败: %w", err)
	}
	s.logger.Info("🔧 BadgerDB存储已关闭")
	return nil
}

// beginWrite 登记一次写入，返回的函数在写入结束时调用
func (s *Store) beginWrite() (func(), error) {
	if s.closing.Load() {
		return nil, ErrStoreClosing
	}
	s.writeWg.Add(1)
	// Add 之后再检查一次，避免与 Close 交错
	if s.closing.Load() {
		s.writeWg.Done()
		return nil, ErrStoreClosing
	}
	return s.writeWg.Done, nil
}

// update 执行一次单键写事务
func (s *Store) update(ctx context.Context, fn func(txn *badgerdb.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()
	return s.db.Update(fn)
}

// Get 读取键值，键不存在时返回 nil, nil
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var val []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger获取键失败: %w", err)
	}
	return val, nil
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var exists bool
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		exists = err == nil
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return false, fmt.Errorf("badger检查键存在性失败: %w", err)
	}
	return exists, nil
}

// Set 写入键值，已存在则覆盖
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	return s.update(ctx, func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
}

// Delete 删除键，键不存在时不报错
func (s *Store) Delete(ctx context.Context, key []byte) error {
	return s.update(ctx, func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
}

// PrefixScan 按前缀扫描键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	result := make(map[string][]byte)

	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			valCopy, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result[string(item.KeyCopy(nil))] = valCopy
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger前缀扫描失败: %w", err)
	}
	return result, nil
}

// RangeScan 范围扫描键值对，结果按键的字节序排列
func (s *Store) RangeScan(ctx context.Context, startKey, endKey []byte, limit int) ([]interfaces.KeyValue, error) {
	var result []interfaces.KeyValue

	err := s.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(startKey); it.Valid(); it.Next() {
			if limit > 0 && len(result) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			// 如果键超过了endKey，则停止迭代
			if len(endKey) > 0 && bytes.Compare(item.Key(), endKey) >= 0 {
				break
			}
			valCopy, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result = append(result, interfaces.KeyValue{Key: item.KeyCopy(nil), Value: valCopy})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger范围扫描失败: %w", err)
	}
	return result, nil
}

// RunInTransaction 在事务中执行操作
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx interfaces.BadgerTransaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()

	tx := newTransaction(s.db)
	defer tx.Discard()

	if err := fn(tx); err != nil {
		return fmt.Errorf("事务执行失败: %w", err)
	}
	switch tx.State() {
	case TxActive:
		return tx.Commit()
	case TxDiscarded:
		return errors.New("事务已被丢弃")
	}
	return nil
}

// Size 返回 LSM 与值日志的字节数
func (s *Store) Size() (lsm, vlog int64) {
	if s.db == nil {
		return 0, 0
	}
	return s.db.Size()
}

// badgerLogger 实现BadgerDB的日志接口
type badgerLogger struct {
	logger log.Logger
}

// newBadgerLogger 创建BadgerDB日志适配器
func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("[BadgerDB] "+format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("[BadgerDB] "+format, args...)
}

// Badger 的 Info 日志非常多，降为 Debug
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}

// ModuleName 实现 MemoryReporter 接口
func (s *Store) ModuleName() string {
	return "storage"
}

// CollectMemoryStats 实现 MemoryReporter 接口
// 上报 LSM 与值日志的字节数，内存模式下即为实际占用
func (s *Store) CollectMemoryStats() metrics.ModuleMemoryStats {
	lsm, vlog := s.Size()
	return metrics.ModuleMemoryStats{
		Module:      s.ModuleName(),
		ApproxBytes: lsm + vlog,
	}
}
