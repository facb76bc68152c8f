//go:build unix

package badger

import (
	"context"
	"syscall"
)

// checkDiskSpace 检查数据库目录所在磁盘空间 (Unix/Linux版本)
func (s *Store) checkDiskSpace(ctx context.Context) {
	dataDir := s.config.GetPath()
	var stat syscall.Statfs_t
	if err := syscall.Statfs(dataDir, &stat); err != nil {
		s.logger.Errorf("检查磁盘空间失败: %v", err)
		return
	}

	available := stat.Bavail * uint64(stat.Bsize)
	total := stat.Blocks * uint64(stat.Bsize)
	if total == 0 {
		return
	}
	usedPercent := float64(total-available) / float64(total) * 100

	// 空间不足警告
	if usedPercent > s.config.GetDiskWarnPercent() {
		s.logger.Warnf("注册表数据目录所在磁盘使用率高: %.2f%% (%s)", usedPercent, dataDir)
	}
}
