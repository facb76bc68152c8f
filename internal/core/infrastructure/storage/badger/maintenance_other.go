//go:build !unix

package badger

import "context"

// checkDiskSpace 非 Unix 平台不做磁盘空间检查
func (s *Store) checkDiskSpace(ctx context.Context) {
	s.logger.Debugf("当前平台不支持磁盘空间检查: %s", s.config.GetPath())
}
