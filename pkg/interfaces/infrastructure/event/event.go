// Package event 提供注册表节点的进程内事件总线接口定义
//
// 注册表在事务提交后通过事件总线广播状态变更，
// 订阅方（指标、日志、缓存失效）不会影响注册表本身的执行结果。
package event

import "github.com/unicus/v1/pkg/types"

// EventType 事件类型，即总线上的主题名
type EventType string

// 注册表相关主题
const (
	// TopicRegistry 注册表事件主题，载荷为 types.RegistryEvent
	TopicRegistry EventType = "registry.event"
	// TopicMetadataUploaded 元数据上传完成主题，载荷为 *types.UploadResult
	TopicMetadataUploaded EventType = "nftstorage.uploaded"
)

// Event 事件接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Data 返回事件数据
	Data() interface{}
}

// EventBus 事件总线接口
// 注意：事件总线由DI容器自动管理生命周期
type EventBus interface {
	// Subscribe 订阅事件
	Subscribe(eventType EventType, handler interface{}) error
	// SubscribeAsync 异步订阅事件
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error
	// SubscribeOnce 一次性订阅事件
	SubscribeOnce(eventType EventType, handler interface{}) error
	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})
	// PublishEvent 发布Event接口类型事件
	PublishEvent(event Event)
	// PublishRegistryEvent 发布注册表事件
	PublishRegistryEvent(ev types.RegistryEvent)
	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error
	// WaitAsync 等待所有异步处理完成
	WaitAsync()
	// HasCallback 检查是否有回调函数
	HasCallback(eventType EventType) bool
}
