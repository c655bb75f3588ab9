package eventbus

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = errors.New("eventbus: closed")
	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = errors.New("eventbus: invalid event type")
	// ErrNonPointerType 非指针类型
	ErrNonPointerType = errors.New("eventbus: event type must be a pointer")
	// ErrEmitterClosed 发射器已关闭
	ErrEmitterClosed = errors.New("eventbus: emitter closed")
	// ErrTypeMismatch 事件与发射器类型不符
	ErrTypeMismatch = errors.New("eventbus: event type mismatch")
)

// defaultBuffer 默认订阅缓冲区大小
const defaultBuffer = 16

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
type Bus struct {
	mu     sync.Mutex
	closed bool
	topics map[reflect.Type]*topic
}

// topic 单一事件类型的订阅者集合
type topic struct {
	typ      reflect.Type
	subs     []*Subscription
	keepLast bool
	last     interface{}
	dropped  atomic.Int64
}

var _ pkgif.EventBus = (*Bus)(nil)

// NewBus 创建新的事件总线
func NewBus() *Bus {
	return &Bus{
		topics: make(map[reflect.Type]*topic),
	}
}

// elemType 校验并返回事件的元素类型
func elemType(eventType interface{}) (reflect.Type, error) {
	if eventType == nil {
		return nil, ErrInvalidEventType
	}
	typ := reflect.TypeOf(eventType)
	if typ.Kind() != reflect.Ptr {
		return nil, ErrNonPointerType
	}
	return typ.Elem(), nil
}

// topicLocked 获取或创建 topic，调用方须持有 b.mu
func (b *Bus) topicLocked(typ reflect.Type) *topic {
	t, ok := b.topics[typ]
	if !ok {
		t = &topic{typ: typ}
		b.topics[typ] = t
	}
	return t
}

// Subscribe 订阅事件
func (b *Bus) Subscribe(eventType interface{}, opts ...pkgif.SubscriptionOpt) (pkgif.Subscription, error) {
	typ, err := elemType(eventType)
	if err != nil {
		return nil, err
	}

	settings := pkgif.SubscriptionSettings{Buffer: defaultBuffer}
	for _, opt := range opts {
		opt(&settings)
	}
	if settings.Buffer < 0 {
		settings.Buffer = 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	sub := &Subscription{
		bus: b,
		typ: typ,
		out: make(chan interface{}, settings.Buffer),
	}

	t := b.topicLocked(typ)
	t.subs = append(t.subs, sub)

	// 有状态 topic 立即补发最后一个事件
	if t.keepLast && t.last != nil {
		select {
		case sub.out <- t.last:
		default:
		}
	}

	return sub, nil
}

// Emitter 获取发射器
func (b *Bus) Emitter(eventType interface{}, opts ...pkgif.EmitterOpt) (pkgif.Emitter, error) {
	typ, err := elemType(eventType)
	if err != nil {
		return nil, err
	}

	var settings pkgif.EmitterSettings
	for _, opt := range opts {
		opt(&settings)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	t := b.topicLocked(typ)
	if settings.Stateful {
		t.keepLast = true
	}

	return &Emitter{bus: b, typ: typ}, nil
}

// Close 关闭总线及其全部订阅
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	topics := b.topics
	b.topics = make(map[reflect.Type]*topic)
	b.mu.Unlock()

	for _, t := range topics {
		for _, sub := range t.subs {
			sub.closeChannel()
		}
	}
	return nil
}

// emit 发射事件到所有订阅者
func (b *Bus) emit(typ reflect.Type, event interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	t, ok := b.topics[typ]
	if !ok {
		return nil
	}

	if t.keepLast {
		t.last = event
	}

	for _, sub := range t.subs {
		select {
		case sub.out <- event:
		default:
			dropped := t.dropped.Add(1)
			// 每丢弃 100 个事件警告一次，避免日志泛滥
			if dropped%100 == 1 {
				logger.Warn("慢消费者检测",
					"dropped", dropped,
					"type", t.typ.String())
			}
		}
	}
	return nil
}

// removeSub 移除订阅
func (b *Bus) removeSub(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[sub.typ]
	if !ok {
		return false
	}
	for i, s := range t.subs {
		if s == sub {
			t.subs = append(t.subs[:i], t.subs[i+1:]...)
			return true
		}
	}
	return false
}
