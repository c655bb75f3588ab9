package mocks

import (
	"context"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// PlayerRelayInfoCall UpdatePlayerRelayInfo 调用记录
type PlayerRelayInfoCall struct {
	AllocationID string
	RelayCode    string
}

// MockLobby 模拟大厅目录
type MockLobby struct {
	Lobby *types.Lobby
	Code  string

	// 可覆盖的方法
	UpdateLobbyRelayCodeFunc  func(ctx context.Context, relayCode string) (*types.Lobby, error)
	UpdatePlayerRelayInfoFunc func(ctx context.Context, allocationID, relayCode string) (*types.Lobby, error)
	KickPlayerFunc            func(ctx context.Context, playerID string) error
	DeleteLobbyFunc           func(ctx context.Context) error

	// 调用记录
	BeginTrackingCalls         int
	StopTrackingCalls          int
	UpdateLobbyRelayCodeCalls  []string
	UpdatePlayerRelayInfoCalls []PlayerRelayInfoCall
	KickCalls                  []string
	DeleteCalls                int
}

var _ pkgif.LobbyService = (*MockLobby)(nil)

// NewMockLobby 创建已加入大厅的 MockLobby
func NewMockLobby(lobbyID string) *MockLobby {
	return &MockLobby{
		Lobby: &types.Lobby{
			ID:         lobbyID,
			Name:       "test-lobby",
			MaxPlayers: 8,
			Data:       map[string]string{},
		},
	}
}

// CurrentLobby 返回 Lobby 字段
func (m *MockLobby) CurrentLobby() *types.Lobby {
	return m.Lobby
}

// RelayCode 返回 Code 字段
func (m *MockLobby) RelayCode() string {
	return m.Code
}

// BeginTracking 记录调用
func (m *MockLobby) BeginTracking() {
	m.BeginTrackingCalls++
}

// StopTracking 记录调用
func (m *MockLobby) StopTracking() {
	m.StopTrackingCalls++
}

// UpdateLobbyRelayCode 记录并保存加入码
func (m *MockLobby) UpdateLobbyRelayCode(ctx context.Context, relayCode string) (*types.Lobby, error) {
	m.UpdateLobbyRelayCodeCalls = append(m.UpdateLobbyRelayCodeCalls, relayCode)
	if m.UpdateLobbyRelayCodeFunc != nil {
		return m.UpdateLobbyRelayCodeFunc(ctx, relayCode)
	}
	m.Code = relayCode
	return m.Lobby, nil
}

// UpdatePlayerRelayInfo 记录调用
func (m *MockLobby) UpdatePlayerRelayInfo(ctx context.Context, allocationID, relayCode string) (*types.Lobby, error) {
	m.UpdatePlayerRelayInfoCalls = append(m.UpdatePlayerRelayInfoCalls, PlayerRelayInfoCall{
		AllocationID: allocationID,
		RelayCode:    relayCode,
	})
	if m.UpdatePlayerRelayInfoFunc != nil {
		return m.UpdatePlayerRelayInfoFunc(ctx, allocationID, relayCode)
	}
	return m.Lobby, nil
}

// KickPlayer 记录调用
func (m *MockLobby) KickPlayer(ctx context.Context, playerID string) error {
	m.KickCalls = append(m.KickCalls, playerID)
	if m.KickPlayerFunc != nil {
		return m.KickPlayerFunc(ctx, playerID)
	}
	return nil
}

// DeleteLobby 记录调用
func (m *MockLobby) DeleteLobby(ctx context.Context) error {
	m.DeleteCalls++
	if m.DeleteLobbyFunc != nil {
		return m.DeleteLobbyFunc(ctx)
	}
	return nil
}
