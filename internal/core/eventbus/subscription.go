package eventbus

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// ============================================================================
// Subscription 实现
// ============================================================================

// Subscription 订阅
type Subscription struct {
	bus       *Bus
	typ       reflect.Type
	out       chan interface{}
	closeOnce sync.Once
}

// Out 返回事件通道
func (s *Subscription) Out() <-chan interface{} {
	return s.out
}

// Close 取消订阅
//
// 可以多次调用。移除后再关闭通道，发射方不会写入已关闭的通道。
func (s *Subscription) Close() error {
	if s.bus.removeSub(s) {
		s.closeChannel()
	}
	return nil
}

func (s *Subscription) closeChannel() {
	s.closeOnce.Do(func() {
		close(s.out)
	})
}

// ============================================================================
// Emitter 实现
// ============================================================================

// Emitter 事件发射器
type Emitter struct {
	bus    *Bus
	typ    reflect.Type
	closed atomic.Bool
}

// Emit 发射事件
//
// 事件的动态类型须与创建发射器时的类型一致。
func (e *Emitter) Emit(event interface{}) error {
	if e.closed.Load() {
		return ErrEmitterClosed
	}
	if reflect.TypeOf(event) != e.typ {
		return ErrTypeMismatch
	}
	return e.bus.emit(e.typ, event)
}

// Close 关闭发射器
func (e *Emitter) Close() error {
	e.closed.Store(true)
	return nil
}
