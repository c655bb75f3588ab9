package interfaces

import "github.com/dep2p/go-netsession/pkg/types"

// Transport 定义传输层接口
//
// 传输层负责实际的对等连接建立与关闭，并通过 TransportEventHandler
// 回调连接事件。所有方法都应在连接所属的控制 goroutine 上调用。
type Transport interface {
	// LocalClientID 返回本端的连接 ID
	LocalClientID() uint64

	// ConnectedClientIDs 返回当前已连接的全部连接 ID（含本端）
	ConnectedClientIDs() []uint64

	// StartClient 以客户端身份启动，返回是否成功
	StartClient() bool

	// StartHost 以主机身份启动，返回是否成功
	StartHost() bool

	// Shutdown 关闭传输层
	Shutdown()

	// DisconnectClient 断开指定连接并附带原因
	DisconnectClient(clientID uint64, reason string)

	// DisconnectReason 返回最近一次断开的原因（可能为空）
	DisconnectReason() string

	// SetConnectionPayload 设置握手载荷
	SetConnectionPayload(payload []byte)

	// SetDirectEndpoint 设置直连地址
	SetDirectEndpoint(address string, port uint16)

	// SetRelayServerData 设置中继连接数据
	SetRelayServerData(data types.RelayServerData)

	// SetEventHandler 注册事件处理器，返回注销函数
	SetEventHandler(handler TransportEventHandler) (remove func())
}

// TransportEventHandler 定义传输层事件回调
type TransportEventHandler interface {
	// OnClientConnected 连接建立
	OnClientConnected(clientID uint64)

	// OnClientDisconnected 连接断开
	OnClientDisconnected(clientID uint64)

	// OnServerStarted 服务端启动完成
	OnServerStarted()

	// OnServerStopped 服务端停止
	OnServerStopped(wasHost bool)

	// ApprovalCheck 准入检查，同步返回结果
	ApprovalCheck(req types.ApprovalRequest) types.ApprovalResponse

	// OnTransportFailure 传输层故障
	OnTransportFailure()
}
