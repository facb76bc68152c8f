// Package storage 提供注册表节点的键值存储接口定义
//
// 💾 **BadgerDB存储服务**
//
// 注册表账本、事件日志和元数据对象都落在同一个 BadgerDB 实例中，
// 通过键前缀区分命名空间。所有状态变更都必须在 RunInTransaction 内完成，
// 以保证一次操作的多键写入要么全部生效，要么全部回滚。
package storage

import (
	"context"
)

//=============================================================================
// BadgerStore 接口定义
//=============================================================================

// BadgerStore 定义了键值存储的应用接口
type BadgerStore interface {
	//-------------------------------------------------------------------------
	// 生命周期管理
	//-------------------------------------------------------------------------

	// Close 关闭BadgerDB数据库连接
	// 等待进行中的写操作完成后再关闭底层数据库
	Close() error

	//-------------------------------------------------------------------------
	// 基本键值操作
	//-------------------------------------------------------------------------

	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对，已存在则覆盖
	Set(ctx context.Context, key, value []byte) error

	// Delete 删除指定键的值
	// 如果键不存在，不会返回错误
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	//-------------------------------------------------------------------------
	// 扫描操作
	//-------------------------------------------------------------------------

	// PrefixScan 按前缀扫描键值对
	// 返回map的键为键的字符串表示
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)

	// RangeScan 范围扫描键值对
	// 返回键在[startKey, endKey)范围内的所有键值对，最多 limit 条（limit<=0 表示不限）
	// 结果按键的字节序排列
	RangeScan(ctx context.Context, startKey, endKey []byte, limit int) ([]KeyValue, error)

	//-------------------------------------------------------------------------
	// 事务操作
	//-------------------------------------------------------------------------

	// RunInTransaction 在事务中执行操作
	// 如果fn返回错误，事务将被回滚；否则事务被提交
	RunInTransaction(ctx context.Context, fn func(tx BadgerTransaction) error) error
}

// KeyValue 有序扫描结果中的一条记录
type KeyValue struct {
	Key   []byte
	Value []byte
}

//=============================================================================
// BadgerTransaction 接口定义
//=============================================================================

// BadgerTransaction 定义了键值存储事务操作接口
// 事务保证所有操作要么全部成功，要么全部失败
type BadgerTransaction interface {
	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(key []byte) ([]byte, error)

	// Set 设置键值对
	Set(key, value []byte) error

	// Delete 删除指定键的值
	Delete(key []byte) error

	// Exists 检查键是否存在
	Exists(key []byte) (bool, error)
}
