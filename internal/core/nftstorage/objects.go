package nftstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	ds "github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	"github.com/multiformats/go-multihash"
)

// 对象内容类型
const (
	contentTypeJSON      = "application/json"
	contentTypeDirectory = "application/vnd.ipld.dag-json"
)

// directory 目录对象：文件名到CID的映射
//
// 以 dag-json 编解码器寻址，JSON 编码的 map 键有序，相同内容得到相同CID。
type directory struct {
	Links map[string]string `json:"links"`
}

// objectStore 内容寻址对象存储
//
//	/blocks/<cid>  对象内容
//	/types/<cid>   内容类型
type objectStore struct {
	blocks ds.Datastore
	types  ds.Datastore
}

func newObjectStore(root ds.Datastore) *objectStore {
	return &objectStore{
		blocks: namespace.Wrap(root, ds.NewKey("/blocks")),
		types:  namespace.Wrap(root, ds.NewKey("/types")),
	}
}

// computeCID 计算 CIDv1（sha2-256）
func computeCID(codec uint64, data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("计算multihash失败: %w", err)
	}
	return cid.NewCidV1(codec, mh), nil
}

// put 保存对象，已存在时不重复写入；返回是否为新对象
func (o *objectStore) put(ctx context.Context, codec uint64, data []byte, contentType string) (cid.Cid, bool, error) {
	c, err := computeCID(codec, data)
	if err != nil {
		return cid.Undef, false, err
	}
	key := ds.NewKey(c.String())

	exists, err := o.blocks.Has(ctx, key)
	if err != nil {
		return cid.Undef, false, err
	}
	if exists {
		return c, false, nil
	}
	if err := o.blocks.Put(ctx, key, data); err != nil {
		return cid.Undef, false, fmt.Errorf("保存对象失败: %w", err)
	}
	if err := o.types.Put(ctx, key, []byte(contentType)); err != nil {
		return cid.Undef, false, fmt.Errorf("保存对象类型失败: %w", err)
	}
	return c, true, nil
}

// putDirectory 保存目录对象
func (o *objectStore) putDirectory(ctx context.Context, links map[string]string) (cid.Cid, bool, error) {
	data, err := json.Marshal(directory{Links: links})
	if err != nil {
		return cid.Undef, false, err
	}
	return o.put(ctx, cid.DagJSON, data, contentTypeDirectory)
}

// get 读取对象内容和类型
func (o *objectStore) get(ctx context.Context, c cid.Cid) ([]byte, string, error) {
	key := ds.NewKey(c.String())
	data, err := o.blocks.Get(ctx, key)
	if errors.Is(err, ds.ErrNotFound) {
		return nil, "", ErrObjectNotFound
	}
	if err != nil {
		return nil, "", err
	}
	contentType, err := o.types.Get(ctx, key)
	if err != nil && !errors.Is(err, ds.ErrNotFound) {
		return nil, "", err
	}
	if len(contentType) == 0 {
		contentType = []byte("application/octet-stream")
	}
	return data, string(contentType), nil
}

// getDirectory 读取目录对象
func (o *objectStore) getDirectory(ctx context.Context, c cid.Cid) (*directory, error) {
	if c.Type() != cid.DagJSON {
		return nil, ErrInvalidCID
	}
	data, _, err := o.get(ctx, c)
	if err != nil {
		return nil, err
	}
	var dir directory
	if err := json.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("解析目录对象失败: %w", err)
	}
	return &dir, nil
}
