package registry

import (
	"context"
	"encoding/binary"

	"github.com/unicus/v1/pkg/types"
)

const (
	// defaultEventLimit 未指定 limit 时的默认条数
	defaultEventLimit = 100
	// maxEventLimit 单次查询上限
	maxEventLimit = 1000
)

// Events 返回序号 >= fromSeq 的事件（按序号升序），最多 limit 条
func (s *Service) Events(ctx context.Context, fromSeq uint64, limit int) ([]types.RegistryEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	if fromSeq == 0 {
		fromSeq = 1
	}

	kvs, err := s.store.RangeScan(ctx, eventKey(fromSeq), eventKeyEnd(), limit)
	if err != nil {
		return nil, err
	}

	events := make([]types.RegistryEvent, 0, len(kvs))
	for _, kv := range kvs {
		seq := binary.BigEndian.Uint64(kv.Key[len(prefixEvent):])
		ev, err := decodeEvent(seq, kv.Value)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
