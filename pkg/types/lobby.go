package types

// LobbyKeyRelayCode 大厅数据中保存中继加入码的键
const LobbyKeyRelayCode = "RelayJoinCode"

// Lobby 大厅记录
type Lobby struct {
	// ID 大厅 ID
	ID string

	// Name 大厅名称
	Name string

	// HostPlayerID 主机玩家 ID
	HostPlayerID string

	// MaxPlayers 最大玩家数
	MaxPlayers int

	// Data 大厅公开数据
	Data map[string]string

	// Players 成员列表
	Players []LobbyPlayer
}

// LobbyPlayer 大厅成员
type LobbyPlayer struct {
	PlayerID     string
	AllocationID string
	RelayCode    string
}

// HasPlayer 检查成员是否在大厅中
func (l *Lobby) HasPlayer(playerID string) bool {
	for _, p := range l.Players {
		if p.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Clone 深拷贝大厅记录
func (l *Lobby) Clone() *Lobby {
	if l == nil {
		return nil
	}
	c := *l
	c.Data = make(map[string]string, len(l.Data))
	for k, v := range l.Data {
		c.Data[k] = v
	}
	c.Players = append([]LobbyPlayer(nil), l.Players...)
	return &c
}
