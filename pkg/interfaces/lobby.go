package interfaces

import (
	"context"

	"github.com/dep2p/go-netsession/pkg/types"
)

// LobbyService 定义大厅目录服务接口
//
// 访问器（CurrentLobby、RelayCode）同步返回，其余操作可能失败。
type LobbyService interface {
	// CurrentLobby 返回当前所在大厅，未加入时返回 nil
	CurrentLobby() *types.Lobby

	// RelayCode 返回当前大厅发布的中继加入码
	RelayCode() string

	// BeginTracking 开始跟踪当前大厅
	BeginTracking()

	// StopTracking 停止跟踪当前大厅
	StopTracking()

	// UpdateLobbyRelayCode 发布中继加入码
	UpdateLobbyRelayCode(ctx context.Context, relayCode string) (*types.Lobby, error)

	// UpdatePlayerRelayInfo 发布本玩家的中继分配信息
	UpdatePlayerRelayInfo(ctx context.Context, allocationID, relayCode string) (*types.Lobby, error)

	// KickPlayer 将玩家移出大厅
	KickPlayer(ctx context.Context, playerID string) error

	// DeleteLobby 删除当前大厅
	DeleteLobby(ctx context.Context) error
}
