package connection

import (
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// ============================================================================
//                              CLIENT_CONNECTING
// ============================================================================

// clientConnectingState CLIENT_CONNECTING 阶段
//
// 进入后先执行连接方式的客户端准备，完成后以客户端身份启动传输层。
type clientConnectingState struct {
	onlineState
	method pkgif.ConnectionMethod
	// handedOff 连接方式已移交 CLIENT_CONNECTED
	handedOff bool
}

func newClientConnectingState(c *Connection, method pkgif.ConnectionMethod) *clientConnectingState {
	return &clientConnectingState{
		onlineState: onlineState{baseState{conn: c}},
		method:      method,
	}
}

// Kind 返回 CLIENT_CONNECTING
func (s *clientConnectingState) Kind() types.ConnectionStateKind {
	return types.StateClientConnecting
}

// Enter 在状态变更通知之后启动准备
func (s *clientConnectingState) Enter() {
	s.conn.machine.Defer(s.connectClient)
}

func (s *clientConnectingState) connectClient() {
	s.conn.runSetup(s, s.method.SetupClientConnection, func(err error) {
		if err != nil {
			logger.Warn("客户端连接准备失败", "method", s.method.Name(), "err", err)
			s.fail()
			return
		}

		logger.Info("客户端连接准备完成", "method", s.method.Name())
		if !s.conn.transport.StartClient() {
			logger.Error("传输层以客户端身份启动失败")
			s.fail()
		}
	})
}

// Exit 未连接成功时归还连接方式占用的资源
func (s *clientConnectingState) Exit() {
	if !s.handedOff {
		s.method.Teardown()
	}
}

// OnClientConnected 连接成功
func (s *clientConnectingState) OnClientConnected(uint64) {
	s.conn.machine.EmitStatus(types.StatusSuccess)
	s.handedOff = true
	s.conn.machine.ChangeState(newClientConnectedState(s.conn, s.method))
}

// OnClientDisconnected 连接被拒绝或中断
func (s *clientConnectingState) OnClientDisconnected(uint64) {
	s.fail()
}

// fail 按传输层给出的原因上报，缺省为 START_CLIENT_FAILED
func (s *clientConnectingState) fail() {
	reason := s.conn.transport.DisconnectReason()
	s.conn.machine.EmitStatus(types.DecodeReason(reason, types.StatusStartClientFailed))
	s.conn.machine.ChangeState(newOfflineState(s.conn))
}

// ============================================================================
//                              CLIENT_CONNECTED
// ============================================================================

// clientConnectedState CLIENT_CONNECTED 阶段
type clientConnectedState struct {
	onlineState
	method pkgif.ConnectionMethod
}

func newClientConnectedState(c *Connection, method pkgif.ConnectionMethod) *clientConnectedState {
	return &clientConnectedState{
		onlineState: onlineState{baseState{conn: c}},
		method:      method,
	}
}

// Kind 返回 CLIENT_CONNECTED
func (s *clientConnectedState) Kind() types.ConnectionStateKind {
	return types.StateClientConnected
}

// Enter 开始跟踪大厅
func (s *clientConnectedState) Enter() {
	s.conn.beginLobbyTracking()
}

// Exit 归还加入名额
func (s *clientConnectedState) Exit() {
	s.method.Teardown()
}

// OnClientDisconnected 解析断开原因后回到 OFFLINE
//
// 没有原因或原因无法解析时上报 START_CLIENT_FAILED。
func (s *clientConnectedState) OnClientDisconnected(uint64) {
	reason := s.conn.transport.DisconnectReason()
	s.conn.machine.EmitStatus(types.DecodeReason(reason, types.StatusStartClientFailed))
	s.conn.machine.ChangeState(newOfflineState(s.conn))
}
