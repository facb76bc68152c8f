package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
)

// maxGCRounds 单次维护最多连续重写的值日志文件数
const maxGCRounds = 8

// RunValueLogGC 回收值日志
//
// 每轮最多重写一个文件，返回 ErrNoRewrite 表示已无可回收文件。
// 返回实际重写的文件数。
func (s *Store) RunValueLogGC(ctx context.Context, discardRatio float64) (int, error) {
	if s.config.IsInMemory() {
		return 0, nil
	}

	rewritten := 0
	for rewritten < maxGCRounds {
		if err := ctx.Err(); err != nil {
			return rewritten, fmt.Errorf("值日志回收被取消: %w", err)
		}
		done, err := s.beginWrite()
		if err != nil {
			return rewritten, err
		}
		err = s.db.RunValueLogGC(discardRatio)
		done()

		switch {
		case err == nil:
			rewritten++
		case errors.Is(err, badgerdb.ErrNoRewrite), errors.Is(err, badgerdb.ErrRejected):
			return rewritten, nil
		default:
			return rewritten, fmt.Errorf("值日志回收失败: %w", err)
		}
	}
	return rewritten, nil
}

// StartMaintenanceRoutines 启动值日志回收与磁盘检查
func (s *Store) StartMaintenanceRoutines(ctx context.Context) {
	go s.every(ctx, s.config.GetGCInterval(), func() {
		n, err := s.RunValueLogGC(ctx, s.config.GetGCDiscardRatio())
		if err != nil {
			s.logger.Warnf("定期值日志回收失败: %v", err)
			return
		}
		if n > 0 {
			s.logger.Infof("🧹 值日志回收完成，重写文件数: %d", n)
		}
	})

	go s.every(ctx, s.config.GetDiskCheckInterval(), func() {
		s.checkDiskSpace(ctx)
	})
}

func (s *Store) every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
