package lobby

import (
	"context"
	"fmt"
	"sync"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

// Client 单个玩家的大厅视图
type Client struct {
	dir  *Directory
	auth pkgif.AuthService

	mu       sync.Mutex
	lobby    *types.Lobby
	tracking bool
}

var _ pkgif.LobbyService = (*Client)(nil)

// NewClient 创建大厅视图
func NewClient(dir *Directory, auth pkgif.AuthService) *Client {
	return &Client{dir: dir, auth: auth}
}

// ============================================================================
//                              加入与离开
// ============================================================================

// CreateLobby 创建大厅并以主机身份加入
func (c *Client) CreateLobby(ctx context.Context, name string, maxPlayers int) (*types.Lobby, error) {
	if c.CurrentLobby() != nil {
		return nil, ErrAlreadyInLobby
	}
	l, err := c.dir.create(ctx, name, c.auth.PlayerID(), maxPlayers)
	if err != nil {
		return nil, err
	}
	c.set(l)
	return l.Clone(), nil
}

// JoinLobby 加入指定大厅
func (c *Client) JoinLobby(ctx context.Context, lobbyID string) (*types.Lobby, error) {
	if cur := c.CurrentLobby(); cur != nil && cur.ID != lobbyID {
		return nil, ErrAlreadyInLobby
	}
	l, err := c.dir.join(ctx, lobbyID, c.auth.PlayerID())
	if err != nil {
		return nil, err
	}
	c.set(l)
	logger.Debug("已加入大厅", "lobby", lobbyID, "player", log.TruncateID(c.auth.PlayerID(), 8))
	return l.Clone(), nil
}

// QuickJoin 加入第一个未满的大厅
func (c *Client) QuickJoin(ctx context.Context) (*types.Lobby, error) {
	lobbies, err := c.dir.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range lobbies {
		if len(l.Players) < l.MaxPlayers || l.HasPlayer(c.auth.PlayerID()) {
			return c.JoinLobby(ctx, l.ID)
		}
	}
	return nil, ErrLobbyNotFound
}

// LeaveLobby 离开当前大厅，主机离开时大厅被删除
func (c *Client) LeaveLobby(ctx context.Context) error {
	cur := c.CurrentLobby()
	if cur == nil {
		return ErrNotInLobby
	}
	c.StopTracking()

	var err error
	if cur.HostPlayerID == c.auth.PlayerID() {
		err = c.dir.delete(ctx, cur.ID)
	} else {
		_, err = c.dir.removePlayer(ctx, cur.ID, c.auth.PlayerID())
	}
	c.set(nil)
	return err
}

// Refresh 从目录重新读取快照
func (c *Client) Refresh(ctx context.Context) (*types.Lobby, error) {
	cur := c.CurrentLobby()
	if cur == nil {
		return nil, ErrNotInLobby
	}
	l, err := c.dir.Get(ctx, cur.ID)
	if err != nil {
		c.set(nil)
		return nil, err
	}
	c.apply(cur.ID, l)
	return c.CurrentLobby(), nil
}

// ============================================================================
//                              LobbyService
// ============================================================================

// CurrentLobby 返回当前大厅快照，未加入时返回 nil
func (c *Client) CurrentLobby() *types.Lobby {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lobby.Clone()
}

// RelayCode 返回当前大厅发布的中继加入码
func (c *Client) RelayCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lobby == nil {
		return ""
	}
	return c.lobby.Data[types.LobbyKeyRelayCode]
}

// BeginTracking 开始接收当前大厅的变更推送
func (c *Client) BeginTracking() {
	c.mu.Lock()
	if c.lobby == nil || c.tracking {
		c.mu.Unlock()
		return
	}
	c.tracking = true
	id := c.lobby.ID
	c.mu.Unlock()

	c.dir.watch(id, c)
	logger.Debug("开始跟踪大厅", "lobby", id)
}

// StopTracking 停止接收变更推送
func (c *Client) StopTracking() {
	c.mu.Lock()
	if !c.tracking {
		c.mu.Unlock()
		return
	}
	c.tracking = false
	var id string
	if c.lobby != nil {
		id = c.lobby.ID
	}
	c.mu.Unlock()

	if id != "" {
		c.dir.unwatch(id, c)
	}
	logger.Debug("停止跟踪大厅", "lobby", id)
}

// IsTracking 是否正在跟踪
func (c *Client) IsTracking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracking
}

// UpdateLobbyRelayCode 发布中继加入码（仅主机）
func (c *Client) UpdateLobbyRelayCode(ctx context.Context, relayCode string) (*types.Lobby, error) {
	cur, err := c.requireHost()
	if err != nil {
		return nil, err
	}
	l, err := c.dir.setData(ctx, cur.ID, types.LobbyKeyRelayCode, relayCode)
	if err != nil {
		return nil, err
	}
	c.apply(cur.ID, l)
	return l, nil
}

// UpdatePlayerRelayInfo 发布本玩家的中继分配信息
func (c *Client) UpdatePlayerRelayInfo(ctx context.Context, allocationID, relayCode string) (*types.Lobby, error) {
	cur := c.CurrentLobby()
	if cur == nil {
		return nil, ErrNotInLobby
	}
	l, err := c.dir.setPlayerRelay(ctx, cur.ID, c.auth.PlayerID(), allocationID, relayCode)
	if err != nil {
		return nil, err
	}
	c.apply(cur.ID, l)
	return l, nil
}

// KickPlayer 将玩家移出大厅（仅主机）
func (c *Client) KickPlayer(ctx context.Context, playerID string) error {
	cur, err := c.requireHost()
	if err != nil {
		return err
	}
	if playerID == c.auth.PlayerID() {
		return fmt.Errorf("%w: host cannot kick itself", ErrInvalidLobby)
	}
	l, err := c.dir.removePlayer(ctx, cur.ID, playerID)
	if err != nil {
		return err
	}
	c.apply(cur.ID, l)
	logger.Info("已移出玩家", "lobby", cur.ID, "player", log.TruncateID(playerID, 8))
	return nil
}

// DeleteLobby 删除当前大厅（仅主机）
func (c *Client) DeleteLobby(ctx context.Context) error {
	cur, err := c.requireHost()
	if err != nil {
		return err
	}
	c.StopTracking()
	if err := c.dir.delete(ctx, cur.ID); err != nil {
		return err
	}
	c.set(nil)
	return nil
}

// ============================================================================
//                              内部方法
// ============================================================================

func (c *Client) requireHost() (*types.Lobby, error) {
	cur := c.CurrentLobby()
	if cur == nil {
		return nil, ErrNotInLobby
	}
	if cur.HostPlayerID != c.auth.PlayerID() {
		return nil, ErrNotHost
	}
	return cur, nil
}

func (c *Client) set(l *types.Lobby) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lobby = l
}

// apply 应用目录推送的快照
//
// snap 为 nil 表示大厅已删除；快照中不含本玩家表示已被移出。
func (c *Client) apply(lobbyID string, snap *types.Lobby) {
	c.mu.Lock()
	if c.lobby == nil || c.lobby.ID != lobbyID {
		c.mu.Unlock()
		return
	}
	if snap != nil && snap.HasPlayer(c.auth.PlayerID()) {
		c.lobby = snap
		c.mu.Unlock()
		return
	}

	c.lobby = nil
	wasTracking := c.tracking
	c.tracking = false
	c.mu.Unlock()

	if wasTracking {
		c.dir.unwatch(lobbyID, c)
	}
	logger.Info("已离开大厅", "lobby", lobbyID, "deleted", snap == nil)
}
