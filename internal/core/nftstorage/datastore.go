package nftstorage

import (
	"context"
	"fmt"

	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/query"
	dssync "github.com/ipfs/go-datastore/sync"
	nftstorageconfig "github.com/unicus/v1/internal/config/nftstorage"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/storage"
)

// badgerPrefix 对象在共享 BadgerDB 中的键前缀
const badgerPrefix = "nftstorage"

var _ ds.Datastore = (*badgerDatastore)(nil)

// badgerDatastore 把注册表节点的 BadgerStore 适配为 go-datastore
//
// 对象与账本共用同一个数据库实例，生命周期由存储模块管理，Close 不关闭底层库。
type badgerDatastore struct {
	store storage.BadgerStore
}

// NewDatastore 按配置的后端创建对象数据存储
func NewDatastore(backend string, store storage.BadgerStore) (ds.Datastore, error) {
	switch backend {
	case nftstorageconfig.BackendMemory:
		return dssync.MutexWrap(ds.NewMapDatastore()), nil
	case nftstorageconfig.BackendBadger, "":
		if store == nil {
			return nil, fmt.Errorf("badger 后端需要 BadgerStore")
		}
		return &badgerDatastore{store: store}, nil
	default:
		return nil, fmt.Errorf("未知的对象存储后端: %s", backend)
	}
}

func (d *badgerDatastore) dbKey(key ds.Key) []byte {
	return []byte(badgerPrefix + key.String())
}

// Get 实现 ds.Read
func (d *badgerDatastore) Get(ctx context.Context, key ds.Key) ([]byte, error) {
	value, err := d.store.Get(ctx, d.dbKey(key))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, ds.ErrNotFound
	}
	return value, nil
}

// Has 实现 ds.Read
func (d *badgerDatastore) Has(ctx context.Context, key ds.Key) (bool, error) {
	return d.store.Exists(ctx, d.dbKey(key))
}

// GetSize 实现 ds.Read
func (d *badgerDatastore) GetSize(ctx context.Context, key ds.Key) (int, error) {
	value, err := d.Get(ctx, key)
	if err != nil {
		return -1, err
	}
	return len(value), nil
}

// Query 实现 ds.Read
// 前缀扫描后交给 NaiveQueryApply 处理过滤、排序和分页
func (d *badgerDatastore) Query(ctx context.Context, q query.Query) (query.Results, error) {
	prefix := badgerPrefix + ds.NewKey(q.Prefix).String()
	if q.Prefix == "" {
		prefix = badgerPrefix + "/"
	}
	kvs, err := d.store.PrefixScan(ctx, []byte(prefix))
	if err != nil {
		return nil, err
	}

	entries := make([]query.Entry, 0, len(kvs))
	for k, v := range kvs {
		e := query.Entry{Key: k[len(badgerPrefix):], Size: len(v)}
		if !q.KeysOnly {
			e.Value = v
		}
		entries = append(entries, e)
	}
	return query.NaiveQueryApply(q, query.ResultsWithEntries(q, entries)), nil
}

// Put 实现 ds.Write
func (d *badgerDatastore) Put(ctx context.Context, key ds.Key, value []byte) error {
	return d.store.Set(ctx, d.dbKey(key), value)
}

// Delete 实现 ds.Write
func (d *badgerDatastore) Delete(ctx context.Context, key ds.Key) error {
	return d.store.Delete(ctx, d.dbKey(key))
}

// Sync 实现 ds.Datastore，BadgerStore 写入即持久化
func (d *badgerDatastore) Sync(context.Context, ds.Key) error {
	return nil
}

// Close 实现 io.Closer，底层数据库由存储模块关闭
func (d *badgerDatastore) Close() error {
	return nil
}
