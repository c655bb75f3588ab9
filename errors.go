package netsession

import "errors"

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// Peer 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted Peer 未启动
	ErrNotStarted = errors.New("peer not started")

	// ErrAlreadyStarted Peer 已启动
	ErrAlreadyStarted = errors.New("peer already started")

	// ErrPeerClosed Peer 已关闭
	ErrPeerClosed = errors.New("peer closed")

	// ────────────────────────────────────────────────────────────────────────
	// 选项错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidOption 无效的选项参数
	ErrInvalidOption = errors.New("invalid option")
)
