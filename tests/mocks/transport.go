package mocks

import (
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// DisconnectCall DisconnectClient 调用记录
type DisconnectCall struct {
	ClientID uint64
	Reason   string
}

// Endpoint SetDirectEndpoint 调用记录
type Endpoint struct {
	Address string
	Port    uint16
}

// MockTransport 模拟传输层
type MockTransport struct {
	LocalID     uint64
	ConnectedID []uint64
	Reason      string

	StartClientResult bool
	StartHostResult   bool

	Handler pkgif.TransportEventHandler

	// 可覆盖的方法
	StartClientFunc func() bool
	StartHostFunc   func() bool
	ShutdownFunc    func()

	// 调用记录
	StartClientCalls int
	StartHostCalls   int
	ShutdownCalls    int
	DisconnectCalls  []DisconnectCall
	Payload          []byte
	Endpoints        []Endpoint
	RelayData        []types.RelayServerData
}

var _ pkgif.Transport = (*MockTransport)(nil)

// NewMockTransport 创建本端 ID 为 localID 的 MockTransport
//
// 默认启动成功。
func NewMockTransport(localID uint64) *MockTransport {
	return &MockTransport{
		LocalID:           localID,
		StartClientResult: true,
		StartHostResult:   true,
	}
}

// LocalClientID 返回本端 ID
func (m *MockTransport) LocalClientID() uint64 {
	return m.LocalID
}

// ConnectedClientIDs 返回已连接 ID 的副本
func (m *MockTransport) ConnectedClientIDs() []uint64 {
	out := make([]uint64, len(m.ConnectedID))
	copy(out, m.ConnectedID)
	return out
}

// StartClient 记录调用
func (m *MockTransport) StartClient() bool {
	m.StartClientCalls++
	if m.StartClientFunc != nil {
		return m.StartClientFunc()
	}
	return m.StartClientResult
}

// StartHost 记录调用
func (m *MockTransport) StartHost() bool {
	m.StartHostCalls++
	if m.StartHostFunc != nil {
		return m.StartHostFunc()
	}
	return m.StartHostResult
}

// Shutdown 记录调用
func (m *MockTransport) Shutdown() {
	m.ShutdownCalls++
	if m.ShutdownFunc != nil {
		m.ShutdownFunc()
	}
}

// DisconnectClient 记录调用
func (m *MockTransport) DisconnectClient(clientID uint64, reason string) {
	m.DisconnectCalls = append(m.DisconnectCalls, DisconnectCall{ClientID: clientID, Reason: reason})
}

// DisconnectReason 返回 Reason 字段
func (m *MockTransport) DisconnectReason() string {
	return m.Reason
}

// SetConnectionPayload 记录载荷
func (m *MockTransport) SetConnectionPayload(payload []byte) {
	m.Payload = append([]byte(nil), payload...)
}

// SetDirectEndpoint 记录地址
func (m *MockTransport) SetDirectEndpoint(address string, port uint16) {
	m.Endpoints = append(m.Endpoints, Endpoint{Address: address, Port: port})
}

// SetRelayServerData 记录中继数据
func (m *MockTransport) SetRelayServerData(data types.RelayServerData) {
	m.RelayData = append(m.RelayData, data)
}

// SetEventHandler 保存处理器
func (m *MockTransport) SetEventHandler(handler pkgif.TransportEventHandler) func() {
	m.Handler = handler
	return func() {
		if m.Handler == handler {
			m.Handler = nil
		}
	}
}

// ============================================================================
//                              触发回调
// ============================================================================

// FireClientConnected 触发连接建立
func (m *MockTransport) FireClientConnected(clientID uint64) {
	if m.Handler != nil {
		m.Handler.OnClientConnected(clientID)
	}
}

// FireClientDisconnected 触发连接断开
func (m *MockTransport) FireClientDisconnected(clientID uint64) {
	if m.Handler != nil {
		m.Handler.OnClientDisconnected(clientID)
	}
}

// FireServerStarted 触发服务端启动
func (m *MockTransport) FireServerStarted() {
	if m.Handler != nil {
		m.Handler.OnServerStarted()
	}
}

// FireServerStopped 触发服务端停止
func (m *MockTransport) FireServerStopped(wasHost bool) {
	if m.Handler != nil {
		m.Handler.OnServerStopped(wasHost)
	}
}

// FireTransportFailure 触发传输层故障
func (m *MockTransport) FireTransportFailure() {
	if m.Handler != nil {
		m.Handler.OnTransportFailure()
	}
}

// FireApproval 触发准入检查
func (m *MockTransport) FireApproval(clientID uint64, payload []byte) types.ApprovalResponse {
	if m.Handler == nil {
		return types.ApprovalResponse{}
	}
	return m.Handler.ApprovalCheck(types.ApprovalRequest{ClientID: clientID, Payload: payload})
}
