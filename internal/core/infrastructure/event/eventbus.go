// 基于asaskevich/EventBus的事件总线实现

package event

import (
	"fmt"
	"sync"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/unicus/v1/internal/config/event"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/event"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/log"
	"github.com/unicus/v1/pkg/interfaces/infrastructure/metrics"
	"github.com/unicus/v1/pkg/types"
)

var (
	_ event.EventBus         = (*EventBus)(nil)
	_ metrics.MemoryReporter = (*EventBus)(nil)
)

// EventBus 是基于asaskevich/EventBus的实现
//
// 🎯 **特性**：
// - 未启用时所有操作静默成功，发布方无需判断开关
// - 单主题订阅者数量受 MaxSubscribers 限制
// - 处理器 panic 不会传播到发布方（注册表在提交后发布，不能被订阅方打断）
type EventBus struct {
	bus    evbus.Bus           // 底层事件总线
	config *eventconfig.Config // 配置
	logger log.Logger

	subMu       sync.Mutex
	subscribers map[event.EventType]int // 各主题当前订阅者数量

	published atomic.Uint64 // 已发布事件数
	dropped   atomic.Uint64 // 处理器 panic 次数
}

// New 创建事件总线实例
// 所有事件总线实例必须通过此函数创建，确保配置被正确应用
func New(config *eventconfig.Config, logger log.Logger) *EventBus {
	if config == nil {
		config = eventconfig.New(nil)
	}
	return &EventBus{
		bus:         evbus.New(),
		config:      config,
		logger:      logger,
		subscribers: make(map[event.EventType]int),
	}
}

// reserve 占用一个订阅名额
func (eb *EventBus) reserve(eventType event.EventType) error {
	eb.subMu.Lock()
	defer eb.subMu.Unlock()

	limit := eb.config.GetMaxSubscribers()
	if limit > 0 && eb.subscribers[eventType] >= limit {
		return fmt.Errorf("主题 %s 订阅者已达上限 %d", eventType, limit)
	}
	eb.subscribers[eventType]++
	return nil
}

// release 归还一个订阅名额
func (eb *EventBus) release(eventType event.EventType) {
	eb.subMu.Lock()
	defer eb.subMu.Unlock()
	if eb.subscribers[eventType] > 0 {
		eb.subscribers[eventType]--
	}
}

// subscribe 统一的订阅流程：占名额、注册、失败时归还
func (eb *EventBus) subscribe(eventType event.EventType, register func() error) error {
	if !eb.config.IsEnabled() {
		return nil // 如果事件系统未启用，静默成功
	}
	if err := eb.reserve(eventType); err != nil {
		return err
	}
	if err := register(); err != nil {
		eb.release(eventType)
		return err
	}
	return nil
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	return eb.subscribe(eventType, func() error {
		return eb.bus.Subscribe(string(eventType), handler)
	})
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	return eb.subscribe(eventType, func() error {
		return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
	})
}

// SubscribeOnce 实现一次性订阅
// 一次性订阅触发后由底层总线自动移除，不占用长期名额
func (eb *EventBus) SubscribeOnce(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.SubscribeOnce(string(eventType), handler)
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.config.IsEnabled() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			eb.dropped.Add(1)
			if eb.logger != nil {
				eb.logger.Errorf("事件处理器异常: topic=%s panic=%v", eventType, r)
			}
		}
	}()

	eb.published.Add(1)
	eb.bus.Publish(string(eventType), args...)
}

// PublishEvent 发布Event接口类型事件
func (eb *EventBus) PublishEvent(e event.Event) {
	if e == nil {
		return
	}
	eb.Publish(e.Type(), e.Data())
}

// PublishRegistryEvent 发布注册表事件
func (eb *EventBus) PublishRegistryEvent(ev types.RegistryEvent) {
	eb.Publish(event.TopicRegistry, ev)
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.bus.Unsubscribe(string(eventType), handler); err != nil {
		return err
	}
	eb.release(eventType)
	return nil
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	if !eb.config.IsEnabled() {
		return
	}
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	if !eb.config.IsEnabled() {
		return false
	}
	return eb.bus.HasCallback(string(eventType))
}

// PublishedCount 已发布事件数
func (eb *EventBus) PublishedCount() uint64 {
	return eb.published.Load()
}

// ModuleName 实现 MemoryReporter 接口
func (eb *EventBus) ModuleName() string {
	return "event"
}

// CollectMemoryStats 实现 MemoryReporter 接口
func (eb *EventBus) CollectMemoryStats() metrics.ModuleMemoryStats {
	eb.subMu.Lock()
	total := 0
	for _, n := range eb.subscribers {
		total += n
	}
	eb.subMu.Unlock()

	return metrics.ModuleMemoryStats{
		Module:  eb.ModuleName(),
		Objects: int64(total),
	}
}

// ==================== 事件包装 ====================

// basicEvent Event 接口的简单实现
type basicEvent struct {
	eventType event.EventType
	data      interface{}
}

// NewEvent 创建事件
func NewEvent(eventType event.EventType, data interface{}) event.Event {
	return &basicEvent{eventType: eventType, data: data}
}

func (e *basicEvent) Type() event.EventType { return e.eventType }
func (e *basicEvent) Data() interface{}     { return e.data }
