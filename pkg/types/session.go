package types

import "time"

// PlayerData 会话内的玩家数据
type PlayerData struct {
	// ClientID 当前绑定的传输层连接 ID
	ClientID uint64

	// PlayerName 玩家显示名
	PlayerName string

	// IsConnected 是否在线
	IsConnected bool

	// ConnectedAt 最近一次绑定的时间
	ConnectedAt time.Time
}
