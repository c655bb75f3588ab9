package memnet

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// ServerClientID 主机本端的连接 ID
const ServerClientID uint64 = 0

// Poster 回调执行器
//
// connection.Loop 满足此接口。Post 在执行器已停止时返回 false。
type Poster interface {
	Post(fn func()) bool
}

type role int

const (
	roleNone role = iota
	roleHost
	roleClient
)

// clientLink 主机侧记录的客户端连接
type clientLink struct {
	t     *Transport
	epoch uint64
}

// Transport 进程内传输层
//
// epoch 在每次启动和关闭时递增，携带旧 epoch 的回调被丢弃。
type Transport struct {
	net    *Network
	poster Poster

	mu        sync.Mutex
	handler   pkgif.TransportEventHandler
	handlerID uint64

	payload   []byte
	address   string
	port      uint16
	directSet bool
	relay     *types.RelayServerData

	role     role
	epoch    uint64
	reason   string
	localID  uint64
	endpoint string

	// 主机侧
	nextID  uint64
	clients map[uint64]clientLink

	// 客户端侧
	host      *Transport
	connected bool
}

var _ pkgif.Transport = (*Transport)(nil)

// NewTransport 创建绑定到 poster 的传输层
func NewTransport(n *Network, poster Poster) (*Transport, error) {
	if n == nil {
		return nil, ErrNilNetwork
	}
	if poster == nil {
		return nil, ErrNilPoster
	}
	return &Transport{net: n, poster: poster}, nil
}

// ============================================================================
//                              配置
// ============================================================================

// SetConnectionPayload 设置握手载荷
func (t *Transport) SetConnectionPayload(payload []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.payload = append([]byte(nil), payload...)
}

// SetDirectEndpoint 设置直连地址，清除中继数据
func (t *Transport) SetDirectEndpoint(address string, port uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.address = address
	t.port = port
	t.directSet = true
	t.relay = nil
}

// SetRelayServerData 设置中继连接数据，清除直连地址
func (t *Transport) SetRelayServerData(data types.RelayServerData) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d := data
	d.Key = append([]byte(nil), data.Key...)
	t.relay = &d
	t.directSet = false
}

// SetEventHandler 注册事件处理器，返回注销函数
func (t *Transport) SetEventHandler(handler pkgif.TransportEventHandler) (remove func()) {
	t.mu.Lock()
	t.handlerID++
	id := t.handlerID
	t.handler = handler
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.handlerID == id {
			t.handler = nil
		}
	}
}

// ============================================================================
//                              查询
// ============================================================================

// LocalClientID 返回本端连接 ID
func (t *Transport) LocalClientID() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.localID
}

// ConnectedClientIDs 返回已连接的连接 ID
//
// 主机返回本端和全部客户端（升序）；客户端只返回自身。
func (t *Transport) ConnectedClientIDs() []uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.role {
	case roleHost:
		ids := make([]uint64, 0, len(t.clients)+1)
		ids = append(ids, ServerClientID)
		for id := range t.clients {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return ids
	case roleClient:
		if t.connected {
			return []uint64{t.localID}
		}
	}
	return nil
}

// DisconnectReason 返回最近一次断开的原因
//
// 只在远端断开或服务端停止后非空；启动和关闭都会清除。
func (t *Transport) DisconnectReason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}

// ============================================================================
//                              启动与关闭
// ============================================================================

// StartHost 注册端点并以主机身份启动
//
// 本端准入检查、OnServerStarted 和本端 OnClientConnected 随后依次投递。
func (t *Transport) StartHost() bool {
	t.mu.Lock()
	t.reason = ""
	if t.role != roleNone {
		t.mu.Unlock()
		logger.Warn("传输层已在运行")
		return false
	}
	ep, ok := t.endpointLocked()
	if !ok {
		t.mu.Unlock()
		logger.Warn("未配置端点，无法启动主机")
		return false
	}
	if !t.net.register(ep, t) {
		t.mu.Unlock()
		logger.Warn("端点已被占用", "endpoint", ep)
		return false
	}

	t.role = roleHost
	t.epoch++
	t.endpoint = ep
	t.localID = ServerClientID
	t.nextID = ServerClientID
	t.clients = make(map[uint64]clientLink)
	epoch := t.epoch
	payload := t.payload
	t.mu.Unlock()

	logger.Debug("主机已注册", "endpoint", ep)
	t.deliver(epoch, func(h pkgif.TransportEventHandler) {
		resp := h.ApprovalCheck(types.ApprovalRequest{ClientID: ServerClientID, Payload: payload})
		if !resp.Approved {
			t.stopServer(epoch, resp.Reason)
			return
		}
		h.OnServerStarted()
		if t.isCurrent(epoch) {
			h.OnClientConnected(ServerClientID)
		}
	})
	return true
}

// StartClient 以客户端身份连接配置的端点
//
// 连接结果异步投递：成功时 OnClientConnected，失败时 OnClientDisconnected。
func (t *Transport) StartClient() bool {
	t.mu.Lock()
	t.reason = ""
	if t.role != roleNone {
		t.mu.Unlock()
		logger.Warn("传输层已在运行")
		return false
	}
	ep, ok := t.endpointLocked()
	if !ok {
		t.mu.Unlock()
		logger.Warn("未配置端点，无法启动客户端")
		return false
	}

	t.role = roleClient
	t.epoch++
	t.localID = 0
	t.host = nil
	t.connected = false
	epoch := t.epoch
	payload := t.payload
	var key []byte
	if t.relay != nil {
		key = t.relay.Key
	}
	t.mu.Unlock()

	host, found := t.net.lookup(ep)
	if !found {
		logger.Debug("端点没有主机", "endpoint", ep)
		t.deliverDisconnect(epoch, "")
		return true
	}
	host.requestJoin(t, epoch, payload, key)
	return true
}

// Shutdown 关闭传输层
//
// 主机关闭时剩余客户端以空原因断开；客户端关闭时通知主机。
// 本端不会收到回调，已记录的断开原因被清除。
func (t *Transport) Shutdown() {
	t.mu.Lock()
	t.reason = ""
	switch t.role {
	case roleHost:
		clients := t.clients
		ep := t.endpoint
		t.resetLocked()
		t.mu.Unlock()

		t.net.unregister(ep, t)
		for _, link := range clients {
			link.t.deliverDisconnect(link.epoch, "")
		}
		logger.Debug("主机已关闭", "endpoint", ep, "clients", len(clients))

	case roleClient:
		host, id, connected := t.host, t.localID, t.connected
		t.resetLocked()
		t.mu.Unlock()

		if host != nil && connected {
			host.clientLeft(id)
		}

	default:
		t.mu.Unlock()
	}
}

// DisconnectClient 主机断开指定客户端并附带原因
func (t *Transport) DisconnectClient(clientID uint64, reason string) {
	t.mu.Lock()
	if t.role != roleHost {
		t.mu.Unlock()
		logger.Debug("非主机忽略断开请求", "client", clientID)
		return
	}
	link, ok := t.clients[clientID]
	if !ok {
		t.mu.Unlock()
		return
	}
	delete(t.clients, clientID)
	epoch := t.epoch
	t.mu.Unlock()

	link.t.deliverDisconnect(link.epoch, reason)
	t.deliver(epoch, func(h pkgif.TransportEventHandler) {
		h.OnClientDisconnected(clientID)
	})
}

// ============================================================================
//                              故障模拟
// ============================================================================

// Fail 投递 OnTransportFailure
func (t *Transport) Fail() {
	t.mu.Lock()
	epoch := t.epoch
	t.mu.Unlock()
	t.deliver(epoch, func(h pkgif.TransportEventHandler) {
		h.OnTransportFailure()
	})
}

// StopServer 主机意外停止，投递 OnServerStopped
func (t *Transport) StopServer() {
	t.mu.Lock()
	epoch := t.epoch
	t.mu.Unlock()
	t.stopServer(epoch, "")
}

// ============================================================================
//                              内部
// ============================================================================

func (t *Transport) endpointLocked() (string, bool) {
	switch {
	case t.relay != nil:
		return "relay/" + t.relay.HostAllocationID, true
	case t.directSet:
		return fmt.Sprintf("direct/%s:%d", t.address, t.port), true
	default:
		return "", false
	}
}

// resetLocked 回到未运行状态并使未执行的回调失效
//
// 断开原因一并清除，需要保留原因的调用方在其后重新写入。
func (t *Transport) resetLocked() {
	t.role = roleNone
	t.epoch++
	t.reason = ""
	t.clients = nil
	t.endpoint = ""
	t.host = nil
	t.connected = false
}

func (t *Transport) isCurrent(epoch uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch == epoch
}

// deliver 在 poster 上执行 fn，epoch 已过期或没有处理器时丢弃
func (t *Transport) deliver(epoch uint64, fn func(pkgif.TransportEventHandler)) {
	ok := t.poster.Post(func() {
		t.mu.Lock()
		h := t.handler
		current := t.epoch == epoch
		t.mu.Unlock()
		if !current || h == nil {
			return
		}
		fn(h)
	})
	if !ok {
		logger.Debug("执行器已停止，丢弃传输层回调")
	}
}

// stopServer 主机停止并投递 OnServerStopped
func (t *Transport) stopServer(epoch uint64, reason string) {
	t.mu.Lock()
	if t.epoch != epoch || t.role != roleHost {
		t.mu.Unlock()
		return
	}
	clients := t.clients
	ep := t.endpoint
	t.resetLocked()
	t.reason = reason
	stopped := t.epoch
	t.mu.Unlock()

	t.net.unregister(ep, t)
	for _, link := range clients {
		link.t.deliverDisconnect(link.epoch, "")
	}
	t.deliver(stopped, func(h pkgif.TransportEventHandler) {
		h.OnServerStopped(true)
	})
}

// requestJoin 在主机控制 goroutine 上执行准入检查
func (t *Transport) requestJoin(client *Transport, clientEpoch uint64, payload, key []byte) {
	t.mu.Lock()
	hostEpoch := t.epoch
	isHost := t.role == roleHost
	var hostKey []byte
	if t.relay != nil {
		hostKey = t.relay.Key
	}
	t.mu.Unlock()

	if !isHost {
		client.deliverDisconnect(clientEpoch, "")
		return
	}
	if hostKey != nil && !bytes.Equal(hostKey, key) {
		logger.Warn("中继会话密钥不匹配")
		client.deliverDisconnect(clientEpoch, "")
		return
	}

	ok := t.poster.Post(func() {
		t.mu.Lock()
		if t.epoch != hostEpoch || t.role != roleHost || t.handler == nil {
			t.mu.Unlock()
			client.deliverDisconnect(clientEpoch, "")
			return
		}
		t.nextID++
		id := t.nextID
		h := t.handler
		t.mu.Unlock()

		resp := h.ApprovalCheck(types.ApprovalRequest{ClientID: id, Payload: payload})
		if !resp.Approved {
			client.deliverDisconnect(clientEpoch, resp.Reason)
			return
		}

		t.mu.Lock()
		if t.epoch != hostEpoch || t.role != roleHost {
			t.mu.Unlock()
			client.deliverDisconnect(clientEpoch, "")
			return
		}
		t.clients[id] = clientLink{t: client, epoch: clientEpoch}
		t.mu.Unlock()

		client.deliverConnected(clientEpoch, t, id)
		h.OnClientConnected(id)
	})
	if !ok {
		client.deliverDisconnect(clientEpoch, "")
	}
}

// clientLeft 客户端主动离开，通知主机
func (t *Transport) clientLeft(clientID uint64) {
	t.mu.Lock()
	if _, ok := t.clients[clientID]; !ok {
		t.mu.Unlock()
		return
	}
	delete(t.clients, clientID)
	epoch := t.epoch
	t.mu.Unlock()

	t.deliver(epoch, func(h pkgif.TransportEventHandler) {
		h.OnClientDisconnected(clientID)
	})
}

// deliverConnected 客户端侧：连接被接受
//
// 客户端已关闭时反向通知主机移除该连接。
func (t *Transport) deliverConnected(epoch uint64, host *Transport, clientID uint64) {
	ok := t.poster.Post(func() {
		t.mu.Lock()
		if t.epoch != epoch || t.role != roleClient {
			t.mu.Unlock()
			host.clientLeft(clientID)
			return
		}
		t.connected = true
		t.localID = clientID
		t.host = host
		h := t.handler
		t.mu.Unlock()

		if h != nil {
			h.OnClientConnected(clientID)
		}
	})
	if !ok {
		host.clientLeft(clientID)
	}
}

// deliverDisconnect 客户端侧：连接被拒绝或断开
func (t *Transport) deliverDisconnect(epoch uint64, reason string) {
	t.poster.Post(func() {
		t.mu.Lock()
		if t.epoch != epoch || t.role != roleClient {
			t.mu.Unlock()
			return
		}
		id := t.localID
		t.role = roleNone
		t.epoch++
		t.reason = reason
		t.host = nil
		t.connected = false
		h := t.handler
		t.mu.Unlock()

		if h != nil {
			h.OnClientDisconnected(id)
		}
	})
}
