package connection

import (
	"context"
	"sync"
)

// defaultLoopQueue 默认队列长度
const defaultLoopQueue = 64

// Loop 控制 goroutine
//
// 投递到 Loop 的函数按顺序在同一个 goroutine 上执行。
type Loop struct {
	queue   chan func()
	closing chan struct{}
	done    chan struct{}

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewLoop 创建事件循环
func NewLoop() *Loop {
	return &Loop{
		queue:   make(chan func(), defaultLoopQueue),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start 启动事件循环
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		go l.run()
	})
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.closing:
			return
		}
	}
}

// Stop 停止事件循环并等待其退出
//
// 队列中尚未执行的函数被丢弃。未启动的 Loop 直接返回。
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.closing)
	})
	l.startOnce.Do(func() {
		// 从未启动
		close(l.done)
	})
	<-l.done
}

// Post 投递 fn，Loop 已停止时返回 false
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.closing:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.closing:
		return false
	}
}

// Do 投递 fn 并等待其执行完成
//
// 不能在 Loop 自身的 goroutine 上调用，否则会死锁。
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrLoopStopped
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
