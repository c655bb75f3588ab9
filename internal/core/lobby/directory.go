package lobby

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

var logger = log.Logger("core/lobby")

// Directory 共享大厅存储
type Directory struct {
	mu       sync.Mutex
	lobbies  map[string]*types.Lobby
	watchers map[string]map[*Client]struct{}
}

// NewDirectory 创建大厅存储
func NewDirectory() *Directory {
	return &Directory{
		lobbies:  make(map[string]*types.Lobby),
		watchers: make(map[string]map[*Client]struct{}),
	}
}

// ============================================================================
//                              查询
// ============================================================================

// Get 返回大厅快照
func (d *Directory) Get(ctx context.Context, lobbyID string) (*types.Lobby, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.lobbies[lobbyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLobbyNotFound, lobbyID)
	}
	return l.Clone(), nil
}

// List 按名称排序返回全部大厅快照
func (d *Directory) List(ctx context.Context) ([]*types.Lobby, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	out := make([]*types.Lobby, 0, len(d.lobbies))
	for _, l := range d.lobbies {
		out = append(out, l.Clone())
	}
	d.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ============================================================================
//                              变更
// ============================================================================

// create 创建大厅，主机自动成为第一个成员
func (d *Directory) create(ctx context.Context, name, hostPlayerID string, maxPlayers int) (*types.Lobby, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || hostPlayerID == "" || maxPlayers <= 0 {
		return nil, fmt.Errorf("%w: name=%q host=%q max=%d", ErrInvalidLobby, name, hostPlayerID, maxPlayers)
	}

	l := &types.Lobby{
		ID:           uuid.NewString(),
		Name:         name,
		HostPlayerID: hostPlayerID,
		MaxPlayers:   maxPlayers,
		Data:         make(map[string]string),
		Players:      []types.LobbyPlayer{{PlayerID: hostPlayerID}},
	}

	d.mu.Lock()
	d.lobbies[l.ID] = l
	snap := l.Clone()
	d.mu.Unlock()

	logger.Info("大厅已创建", "lobby", l.ID, "name", name, "host", log.TruncateID(hostPlayerID, 8))
	return snap, nil
}

// join 加入大厅
func (d *Directory) join(ctx context.Context, lobbyID, playerID string) (*types.Lobby, error) {
	return d.mutate(ctx, lobbyID, func(l *types.Lobby) error {
		if l.HasPlayer(playerID) {
			return nil
		}
		if len(l.Players) >= l.MaxPlayers {
			return ErrLobbyFull
		}
		l.Players = append(l.Players, types.LobbyPlayer{PlayerID: playerID})
		return nil
	})
}

// removePlayer 移除成员
func (d *Directory) removePlayer(ctx context.Context, lobbyID, playerID string) (*types.Lobby, error) {
	return d.mutate(ctx, lobbyID, func(l *types.Lobby) error {
		for i, p := range l.Players {
			if p.PlayerID == playerID {
				l.Players = append(l.Players[:i], l.Players[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	})
}

// setData 设置大厅公开数据
func (d *Directory) setData(ctx context.Context, lobbyID, key, value string) (*types.Lobby, error) {
	return d.mutate(ctx, lobbyID, func(l *types.Lobby) error {
		l.Data[key] = value
		return nil
	})
}

// setPlayerRelay 设置成员中继信息
func (d *Directory) setPlayerRelay(ctx context.Context, lobbyID, playerID, allocationID, relayCode string) (*types.Lobby, error) {
	return d.mutate(ctx, lobbyID, func(l *types.Lobby) error {
		for i := range l.Players {
			if l.Players[i].PlayerID == playerID {
				l.Players[i].AllocationID = allocationID
				l.Players[i].RelayCode = relayCode
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	})
}

// delete 删除大厅，跟踪者的快照被清空
func (d *Directory) delete(ctx context.Context, lobbyID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	if _, ok := d.lobbies[lobbyID]; !ok {
		d.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrLobbyNotFound, lobbyID)
	}
	delete(d.lobbies, lobbyID)
	watchers := d.watchersLocked(lobbyID)
	delete(d.watchers, lobbyID)
	d.mu.Unlock()

	for _, c := range watchers {
		c.apply(lobbyID, nil)
	}
	logger.Info("大厅已删除", "lobby", lobbyID)
	return nil
}

// mutate 修改大厅并推送快照给跟踪者
func (d *Directory) mutate(ctx context.Context, lobbyID string, fn func(*types.Lobby) error) (*types.Lobby, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	l, ok := d.lobbies[lobbyID]
	if !ok {
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrLobbyNotFound, lobbyID)
	}
	if err := fn(l); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	snap := l.Clone()
	watchers := d.watchersLocked(lobbyID)
	d.mu.Unlock()

	for _, c := range watchers {
		c.apply(lobbyID, snap.Clone())
	}
	return snap, nil
}

// ============================================================================
//                              跟踪
// ============================================================================

func (d *Directory) watch(lobbyID string, c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.watchers[lobbyID]
	if !ok {
		set = make(map[*Client]struct{})
		d.watchers[lobbyID] = set
	}
	set[c] = struct{}{}
}

func (d *Directory) unwatch(lobbyID string, c *Client) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if set, ok := d.watchers[lobbyID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(d.watchers, lobbyID)
		}
	}
}

func (d *Directory) watchersLocked(lobbyID string) []*Client {
	set := d.watchers[lobbyID]
	out := make([]*Client, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
