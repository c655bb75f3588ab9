package connection

import (
	"context"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// ============================================================================
//                              STARTING_HOST
// ============================================================================

// startingHostState STARTING_HOST 阶段
//
// 进入后先执行连接方式的主机准备，完成后以主机身份启动传输层。
type startingHostState struct {
	onlineState
	method pkgif.ConnectionMethod
	// handedOff 连接方式已移交 HOSTING
	handedOff bool
}

func newStartingHostState(c *Connection, method pkgif.ConnectionMethod) *startingHostState {
	return &startingHostState{
		onlineState: onlineState{baseState{conn: c}},
		method:      method,
	}
}

// Kind 返回 STARTING_HOST
func (s *startingHostState) Kind() types.ConnectionStateKind {
	return types.StateStartingHost
}

// Enter 在状态变更通知之后启动准备
func (s *startingHostState) Enter() {
	s.conn.machine.Defer(s.startHost)
}

func (s *startingHostState) startHost() {
	s.conn.runSetup(s, s.method.SetupHostConnection, func(err error) {
		if err != nil {
			logger.Warn("主机连接准备失败", "method", s.method.Name(), "err", err)
			s.fail()
			return
		}

		logger.Info("主机连接准备完成", "method", s.method.Name())
		if !s.conn.transport.StartHost() {
			logger.Error("传输层以主机身份启动失败")
			s.fail()
		}
	})
}

// ApprovalCheck 启动过程中接受本端
//
// 非本端请求默认拒绝，配置 ValidateWhileStarting 后按完整规则校验。
func (s *startingHostState) ApprovalCheck(req types.ApprovalRequest) types.ApprovalResponse {
	if req.ClientID == s.conn.transport.LocalClientID() {
		var resp types.ApprovalResponse
		resp.Approve()
		return resp
	}
	if !s.conn.cfg.ValidateWhileStarting {
		logger.Debug("主机启动中，拒绝远端准入请求", "client", req.ClientID)
		return types.ApprovalResponse{}
	}
	return s.conn.checkApproval(req)
}

// Exit 启动未成功时释放连接方式占用的资源
func (s *startingHostState) Exit() {
	if !s.handedOff {
		s.method.Teardown()
	}
}

// OnServerStarted 主机启动成功
func (s *startingHostState) OnServerStarted() {
	s.conn.machine.EmitStatus(types.StatusSuccess)
	s.handedOff = true
	s.conn.machine.ChangeState(newHostingState(s.conn, s.method))
}

// OnServerStopped 启动过程中服务端停止
func (s *startingHostState) OnServerStopped(bool) {
	s.fail()
}

// fail 按传输层给出的原因上报，缺省为 START_HOST_FAILED
func (s *startingHostState) fail() {
	reason := s.conn.transport.DisconnectReason()
	s.conn.machine.EmitStatus(types.DecodeReason(reason, types.StatusStartHostFailed))
	s.conn.machine.ChangeState(newOfflineState(s.conn))
}

// ============================================================================
//                              HOSTING
// ============================================================================

// hostingState HOSTING 阶段
type hostingState struct {
	onlineState
	method pkgif.ConnectionMethod
}

func newHostingState(c *Connection, method pkgif.ConnectionMethod) *hostingState {
	return &hostingState{
		onlineState: onlineState{baseState{conn: c}},
		method:      method,
	}
}

// Kind 返回 HOSTING
func (s *hostingState) Kind() types.ConnectionStateKind {
	return types.StateHosting
}

// Enter 开始会话记录并跟踪大厅
func (s *hostingState) Enter() {
	s.conn.registry.StartSession()
	s.conn.beginLobbyTracking()
}

// Exit 结束会话记录并释放中继分配
func (s *hostingState) Exit() {
	s.conn.registry.OnServerEnded()
	s.method.Teardown()
}

// OnClientConnected 通知有客户端加入
func (s *hostingState) OnClientConnected(clientID uint64) {
	s.conn.machine.EmitStatus(types.StatusSuccess)
	s.conn.machine.Emit(types.NewClientConnectedEvent(types.StatusSuccess, clientID))
}

// OnClientDisconnected 远端客户端离开
//
// 本端或注册表中没有记录的连接不做处理。
func (s *hostingState) OnClientDisconnected(clientID uint64) {
	if clientID == s.conn.transport.LocalClientID() {
		return
	}
	playerID, ok := s.conn.registry.PlayerID(clientID)
	if !ok {
		logger.Debug("断开的连接没有玩家记录", "client", clientID)
		return
	}

	logger.Info("客户端离开", "client", clientID, "player", playerID)
	s.conn.registry.DisconnectClient(clientID)
	s.conn.machine.Emit(types.NewClientDisconnectedEvent(types.StatusGenericDisconnect, clientID))
	s.conn.machine.EmitStatus(types.StatusGenericDisconnect)
}

// OnServerStopped 服务端意外停止
func (s *hostingState) OnServerStopped(bool) {
	s.conn.machine.EmitStatus(types.StatusGenericDisconnect)
	s.conn.machine.ChangeState(newOfflineState(s.conn))
}

// RequestShutdown 断开全部远端客户端后回到 OFFLINE
//
// 本端连接不会被断开，关闭传输层由 OFFLINE 完成。
func (s *hostingState) RequestShutdown() {
	reason := types.EncodeReason(types.StatusHostEndedSession)
	local := s.conn.transport.LocalClientID()

	ids := s.conn.transport.ConnectedClientIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if ids[i] == local {
			continue
		}
		s.conn.transport.DisconnectClient(ids[i], reason)
	}

	if s.conn.cfg.DeleteLobbyOnShutdown && s.conn.lobby != nil && s.conn.lobby.CurrentLobby() != nil {
		lobby := s.conn.lobby
		s.conn.runBackground("delete lobby", func(ctx context.Context) error {
			return lobby.DeleteLobby(ctx)
		})
	}

	s.conn.machine.ChangeState(newOfflineState(s.conn))
}

// ApprovalCheck 完整准入校验
func (s *hostingState) ApprovalCheck(req types.ApprovalRequest) types.ApprovalResponse {
	return s.conn.checkApproval(req)
}
