package mocks

import (
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// MockAuth 模拟认证服务
type MockAuth struct {
	ID string
}

var _ pkgif.AuthService = (*MockAuth)(nil)

// PlayerID 返回 ID 字段
func (m *MockAuth) PlayerID() string {
	return m.ID
}

// MockSessionRegistry 模拟会话注册表
type MockSessionRegistry struct {
	// Players 连接 ID → 玩家 ID
	Players map[uint64]string
	// Online 视为已在线的玩家
	Online map[string]bool

	// 调用记录
	StartSessionCalls int
	ServerEndedCalls  int
	DisconnectCalls   []uint64
}

var _ pkgif.SessionRegistry = (*MockSessionRegistry)(nil)

// NewMockSessionRegistry 创建空注册表
func NewMockSessionRegistry() *MockSessionRegistry {
	return &MockSessionRegistry{
		Players: make(map[uint64]string),
		Online:  make(map[string]bool),
	}
}

// PlayerID 查询玩家 ID
func (m *MockSessionRegistry) PlayerID(clientID uint64) (string, bool) {
	id, ok := m.Players[clientID]
	return id, ok
}

// IsDuplicateConnection 查询 Online
func (m *MockSessionRegistry) IsDuplicateConnection(playerID string) bool {
	return m.Online[playerID]
}

// StartSession 记录调用
func (m *MockSessionRegistry) StartSession() {
	m.StartSessionCalls++
}

// OnServerEnded 记录调用
func (m *MockSessionRegistry) OnServerEnded() {
	m.ServerEndedCalls++
}

// DisconnectClient 记录调用
func (m *MockSessionRegistry) DisconnectClient(clientID uint64) {
	m.DisconnectCalls = append(m.DisconnectCalls, clientID)
}
