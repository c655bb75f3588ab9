package connection

import "github.com/dep2p/go-netsession/pkg/types"

// offlineState OFFLINE 阶段
//
// 进入时停止跟踪大厅并关闭传输层。可由此以客户端或主机身份启动。
type offlineState struct {
	baseState
}

func newOfflineState(c *Connection) *offlineState {
	return &offlineState{baseState{conn: c}}
}

// Kind 返回 OFFLINE
func (s *offlineState) Kind() types.ConnectionStateKind {
	return types.StateOffline
}

// Enter 停止跟踪大厅并关闭传输层
func (s *offlineState) Enter() {
	if s.conn.lobby != nil {
		s.conn.lobby.StopTracking()
	}
	s.conn.transport.Shutdown()
}

// StartClient 创建连接方式并进入 CLIENT_CONNECTING
func (s *offlineState) StartClient(playerName string) {
	method := s.conn.newMethod(playerName)
	s.conn.machine.ChangeState(newClientConnectingState(s.conn, method))
}

// StartHost 创建连接方式并进入 STARTING_HOST
func (s *offlineState) StartHost(playerName string) {
	method := s.conn.newMethod(playerName)
	s.conn.machine.ChangeState(newStartingHostState(s.conn, method))
}

// ApprovalCheck 只接受本端
func (s *offlineState) ApprovalCheck(req types.ApprovalRequest) types.ApprovalResponse {
	var resp types.ApprovalResponse
	if req.ClientID == s.conn.transport.LocalClientID() {
		resp.Approve()
	}
	return resp
}
