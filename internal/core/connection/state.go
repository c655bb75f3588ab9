package connection

import "github.com/dep2p/go-netsession/pkg/types"

// State 连接状态
//
// 每个生命周期阶段一个实现。状态通过嵌入 baseState 获得空操作默认
// 处理，在线状态再嵌入 onlineState 获得统一的关闭/故障处理。
type State interface {
	// Kind 返回阶段
	Kind() types.ConnectionStateKind

	// Enter 成为当前状态后调用
	Enter()
	// Exit 被替换前调用
	Exit()

	StartClient(playerName string)
	StartHost(playerName string)
	RequestShutdown()

	OnClientConnected(clientID uint64)
	OnClientDisconnected(clientID uint64)
	OnServerStarted()
	OnServerStopped(wasHost bool)
	OnTransportFailure()

	// ApprovalCheck 准入检查，零值响应表示拒绝
	ApprovalCheck(req types.ApprovalRequest) types.ApprovalResponse
}

// ============================================================================
//                              baseState
// ============================================================================

// baseState 所有事件的空操作默认实现
type baseState struct {
	conn *Connection
}

func (baseState) Enter()                   {}
func (baseState) Exit()                    {}
func (baseState) StartClient(string)       {}
func (baseState) StartHost(string)         {}
func (baseState) RequestShutdown()         {}
func (baseState) OnClientConnected(uint64) {}

func (baseState) OnClientDisconnected(uint64) {}
func (baseState) OnServerStarted()            {}
func (baseState) OnServerStopped(bool)        {}
func (baseState) OnTransportFailure()         {}

func (baseState) ApprovalCheck(types.ApprovalRequest) types.ApprovalResponse {
	return types.ApprovalResponse{}
}

// ============================================================================
//                              onlineState
// ============================================================================

// onlineState 在线状态的共同行为
//
// 用户请求关闭和传输层故障都回到 OFFLINE。
type onlineState struct {
	baseState
}

// RequestShutdown 回到 OFFLINE
func (s onlineState) RequestShutdown() {
	s.conn.machine.ChangeState(newOfflineState(s.conn))
}

// OnTransportFailure 回到 OFFLINE
func (s onlineState) OnTransportFailure() {
	logger.Warn("传输层故障，回到离线状态")
	s.conn.machine.ChangeState(newOfflineState(s.conn))
}
