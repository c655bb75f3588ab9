package method

import "errors"

var (
	// ErrHostConnectionFailed 主机连接准备失败
	ErrHostConnectionFailed = errors.New("method: host connection failed")

	// ErrClientConnectionFailed 客户端连接准备失败
	ErrClientConnectionFailed = errors.New("method: client connection failed")

	// ErrNoLobby 没有加入大厅
	ErrNoLobby = errors.New("method: no active lobby")

	// ErrNoRelayCode 大厅没有发布中继加入码
	ErrNoRelayCode = errors.New("method: lobby has no relay code")

	// ErrMissingDependency 缺少必需的协作者
	ErrMissingDependency = errors.New("method: missing dependency")

	// ErrTornDown 准备完成前连接方式已被归还
	ErrTornDown = errors.New("method: torn down")

	// ErrUnknownKind 未知的连接方式
	ErrUnknownKind = errors.New("method: unknown kind")
)
