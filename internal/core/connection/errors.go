package connection

import "errors"

var (
	// ErrNilTransport 未提供传输层
	ErrNilTransport = errors.New("connection: transport is required")

	// ErrNilRegistry 未提供会话注册表
	ErrNilRegistry = errors.New("connection: session registry is required")

	// ErrNilMethodFactory 未提供连接方式工厂
	ErrNilMethodFactory = errors.New("connection: method factory is required")

	// ErrClosed 连接已关闭
	ErrClosed = errors.New("connection: closed")

	// ErrLoopStopped 事件循环已停止
	ErrLoopStopped = errors.New("connection: loop stopped")
)
