package types

// ============================================================================
//                              ConnectionStateKind - 状态机阶段
// ============================================================================

// ConnectionStateKind 标识当前活跃的连接状态
//
// 协作方据此区分同一事件在不同阶段的含义，
// 例如准入检查在 StartingHost 与 Hosting 阶段语义不同。
type ConnectionStateKind int

const (
	// StateOffline 离线，传输层已关闭
	StateOffline ConnectionStateKind = iota
	// StateStartingHost 正在启动主机
	StateStartingHost
	// StateHosting 作为主机运行
	StateHosting
	// StateClientConnecting 客户端连接中
	StateClientConnecting
	// StateClientConnected 客户端已连接
	StateClientConnected
)

// String 返回阶段的字符串表示
func (k ConnectionStateKind) String() string {
	switch k {
	case StateOffline:
		return "OFFLINE"
	case StateStartingHost:
		return "STARTING_HOST"
	case StateHosting:
		return "HOSTING"
	case StateClientConnecting:
		return "CLIENT_CONNECTING"
	case StateClientConnected:
		return "CLIENT_CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// IsOnline 是否为在线阶段（除 Offline 外均为在线）
func (k ConnectionStateKind) IsOnline() bool {
	return k != StateOffline
}

// IsHost 是否为主机侧阶段
func (k ConnectionStateKind) IsHost() bool {
	return k == StateStartingHost || k == StateHosting
}
