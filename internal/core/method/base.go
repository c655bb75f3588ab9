package method

import (
	"fmt"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

var logger = log.Logger("core/method")

// Deps 连接方式依赖
type Deps struct {
	// Transport 传输层（必需）
	Transport pkgif.Transport

	// Auth 认证服务（必需）
	Auth pkgif.AuthService

	// Relay 中继服务（relay 方式必需）
	Relay pkgif.RelayService

	// Lobby 大厅目录（relay 方式必需）
	Lobby pkgif.LobbyService

	// MaxConnectedPlayers 中继分配容量
	MaxConnectedPlayers int

	// DebugBuild 写入载荷的构建类型
	DebugBuild bool

	// Region 中继区域，空表示由服务选择
	Region string
}

// base 两种方式共用的载荷写入
type base struct {
	deps       Deps
	playerName string
}

// writePayload 用认证玩家 ID 写入握手载荷
func (b *base) writePayload() error {
	playerID := b.deps.Auth.PlayerID()
	if playerID == "" {
		return types.ErrEmptyPlayerID
	}

	data, err := types.ConnectionPayload{
		PlayerID:   playerID,
		PlayerName: b.playerName,
		IsDebug:    b.deps.DebugBuild,
	}.Encode()
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	b.deps.Transport.SetConnectionPayload(data)
	return nil
}

// PlayerName 返回玩家显示名
func (b *base) PlayerName() string {
	return b.playerName
}
