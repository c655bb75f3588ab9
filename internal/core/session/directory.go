package session

import (
	"sync"

	"github.com/benbjohnson/clock"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

var logger = log.Logger("core/session")

// Directory 内存会话注册表
type Directory struct {
	clock clock.Clock

	mu      sync.RWMutex
	started bool
	clients map[uint64]string
	players map[string]types.PlayerData
}

var (
	_ pkgif.SessionRegistry  = (*Directory)(nil)
	_ pkgif.SessionDirectory = (*Directory)(nil)
)

// NewDirectory 创建注册表，clk 为 nil 时使用系统时钟
func NewDirectory(clk clock.Clock) *Directory {
	if clk == nil {
		clk = clock.New()
	}
	return &Directory{
		clock:   clk,
		clients: make(map[uint64]string),
		players: make(map[string]types.PlayerData),
	}
}

// PlayerID 返回连接对应的玩家 ID
func (d *Directory) PlayerID(clientID uint64) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.clients[clientID]
	return id, ok
}

// IsDuplicateConnection 玩家已有在线连接时返回 true
func (d *Directory) IsDuplicateConnection(playerID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	data, ok := d.players[playerID]
	return ok && data.IsConnected
}

// SetupConnectingPlayer 绑定连接 ID 与玩家
//
// 重复的在线连接被忽略；断线重连的玩家沿用已有数据，只更新连接 ID。
func (d *Directory) SetupConnectingPlayer(clientID uint64, playerID string, data types.PlayerData) {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.players[playerID]
	if ok && existing.IsConnected {
		logger.Warn("玩家已在线，忽略重复绑定", "player", log.TruncateID(playerID, 8), "client", clientID)
		return
	}

	if ok {
		// 重连
		delete(d.clients, existing.ClientID)
		data = existing
		logger.Info("玩家重连", "player", log.TruncateID(playerID, 8), "client", clientID)
	}

	data.ClientID = clientID
	data.IsConnected = true
	data.ConnectedAt = d.clock.Now()

	d.clients[clientID] = playerID
	d.players[playerID] = data
}

// PlayerData 返回玩家数据
func (d *Directory) PlayerData(playerID string) (types.PlayerData, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	data, ok := d.players[playerID]
	return data, ok
}

// PlayerDataByClient 按连接 ID 返回玩家数据
func (d *Directory) PlayerDataByClient(clientID uint64) (types.PlayerData, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	playerID, ok := d.clients[clientID]
	if !ok {
		return types.PlayerData{}, false
	}
	data, ok := d.players[playerID]
	return data, ok
}

// StartSession 标记会话开始
func (d *Directory) StartSession() {
	d.mu.Lock()
	d.started = true
	d.mu.Unlock()
}

// OnServerEnded 清空全部记录
func (d *Directory) OnServerEnded() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.started = false
	d.clients = make(map[uint64]string)
	d.players = make(map[string]types.PlayerData)
}

// DisconnectClient 标记连接断开
//
// 会话开始后保留映射和玩家数据以便重连，否则直接移除。
func (d *Directory) DisconnectClient(clientID uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	playerID, ok := d.clients[clientID]
	if !ok {
		return
	}
	data, ok := d.players[playerID]

	if !d.started {
		delete(d.clients, clientID)
		if ok && data.ClientID == clientID {
			delete(d.players, playerID)
		}
		return
	}

	if ok && data.ClientID == clientID {
		data.IsConnected = false
		d.players[playerID] = data
	}
}

// ConnectedCount 返回在线玩家数
func (d *Directory) ConnectedCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := 0
	for _, data := range d.players {
		if data.IsConnected {
			n++
		}
	}
	return n
}
