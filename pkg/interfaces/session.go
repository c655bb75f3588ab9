package interfaces

import "github.com/dep2p/go-netsession/pkg/types"

// SessionRegistry 定义会话注册表接口
//
// 维护传输层连接 ID 到持久玩家身份的映射。
type SessionRegistry interface {
	// PlayerID 返回连接对应的玩家 ID
	PlayerID(clientID uint64) (string, bool)

	// IsDuplicateConnection 检查玩家是否已有在线连接
	IsDuplicateConnection(playerID string) bool

	// StartSession 开始会话记录
	StartSession()

	// OnServerEnded 主机结束，清理会话记录
	OnServerEnded()

	// DisconnectClient 将连接标记为断开
	DisconnectClient(clientID uint64)
}

// SessionDirectory 定义会话绑定所需的扩展注册表接口
type SessionDirectory interface {
	SessionRegistry

	// SetupConnectingPlayer 绑定连接 ID 与玩家数据
	SetupConnectingPlayer(clientID uint64, playerID string, data types.PlayerData)

	// PlayerData 返回玩家数据
	PlayerData(playerID string) (types.PlayerData, bool)
}
