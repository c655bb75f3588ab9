package memnet

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// queuePoster 单线程队列，drain 时按顺序执行
type queuePoster struct {
	queue   []func()
	stopped bool
}

func (q *queuePoster) Post(fn func()) bool {
	if q.stopped {
		return false
	}
	q.queue = append(q.queue, fn)
	return true
}

func (q *queuePoster) drain() {
	for len(q.queue) > 0 {
		fn := q.queue[0]
		q.queue = q.queue[1:]
		fn()
	}
}

// recordingHandler 记录回调
type recordingHandler struct {
	events   []string
	requests []types.ApprovalRequest
	approve  func(types.ApprovalRequest) types.ApprovalResponse
}

func (r *recordingHandler) OnClientConnected(id uint64) {
	r.events = append(r.events, fmt.Sprintf("connected:%d", id))
}

func (r *recordingHandler) OnClientDisconnected(id uint64) {
	r.events = append(r.events, fmt.Sprintf("disconnected:%d", id))
}

func (r *recordingHandler) OnServerStarted() {
	r.events = append(r.events, "server-started")
}

func (r *recordingHandler) OnServerStopped(wasHost bool) {
	r.events = append(r.events, fmt.Sprintf("server-stopped:%v", wasHost))
}

func (r *recordingHandler) ApprovalCheck(req types.ApprovalRequest) types.ApprovalResponse {
	r.requests = append(r.requests, req)
	if r.approve != nil {
		return r.approve(req)
	}
	var resp types.ApprovalResponse
	resp.Approve()
	return resp
}

func (r *recordingHandler) OnTransportFailure() {
	r.events = append(r.events, "failure")
}

var _ pkgif.TransportEventHandler = (*recordingHandler)(nil)

type fixture struct {
	net    *Network
	poster *queuePoster
	host   *Transport
	hostH  *recordingHandler
	client *Transport
	clH    *recordingHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{net: NewNetwork(), poster: &queuePoster{}}

	var err error
	f.host, err = NewTransport(f.net, f.poster)
	require.NoError(t, err)
	f.client, err = NewTransport(f.net, f.poster)
	require.NoError(t, err)

	f.hostH = &recordingHandler{}
	f.clH = &recordingHandler{}
	f.host.SetEventHandler(f.hostH)
	f.client.SetEventHandler(f.clH)

	f.host.SetDirectEndpoint("127.0.0.1", 7777)
	f.client.SetDirectEndpoint("127.0.0.1", 7777)
	return f
}

func (f *fixture) startHost(t *testing.T) {
	t.Helper()
	f.host.SetConnectionPayload([]byte("host"))
	require.True(t, f.host.StartHost())
	f.poster.drain()
	require.Equal(t, []string{"server-started", "connected:0"}, f.hostH.events)
	f.hostH.events = nil
}

func TestNewTransport_Errors(t *testing.T) {
	_, err := NewTransport(nil, &queuePoster{})
	assert.ErrorIs(t, err, ErrNilNetwork)
	_, err = NewTransport(NewNetwork(), nil)
	assert.ErrorIs(t, err, ErrNilPoster)
}

func TestTransport_StartHost(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)

	require.Len(t, f.hostH.requests, 1)
	assert.Equal(t, ServerClientID, f.hostH.requests[0].ClientID)
	assert.Equal(t, []byte("host"), f.hostH.requests[0].Payload)
	assert.Equal(t, []uint64{0}, f.host.ConnectedClientIDs())
	assert.Equal(t, []string{"direct/127.0.0.1:7777"}, f.net.Endpoints())

	assert.False(t, f.host.StartHost(), "already running")
}

func TestTransport_StartHost_NoEndpoint(t *testing.T) {
	tr, err := NewTransport(NewNetwork(), &queuePoster{})
	require.NoError(t, err)
	assert.False(t, tr.StartHost())
	assert.False(t, tr.StartClient())
}

func TestTransport_EndpointInUse(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)

	other, err := NewTransport(f.net, f.poster)
	require.NoError(t, err)
	other.SetDirectEndpoint("127.0.0.1", 7777)
	assert.False(t, other.StartHost())
}

func TestTransport_LocalApprovalDenied(t *testing.T) {
	f := newFixture(t)
	f.hostH.approve = func(req types.ApprovalRequest) types.ApprovalResponse {
		var resp types.ApprovalResponse
		resp.Deny(types.StatusStartHostFailed)
		return resp
	}

	require.True(t, f.host.StartHost())
	f.poster.drain()

	assert.Equal(t, []string{"server-stopped:true"}, f.hostH.events)
	assert.Equal(t, types.EncodeReason(types.StatusStartHostFailed), f.host.DisconnectReason())
	assert.Empty(t, f.net.Endpoints())
}

func TestTransport_ClientApproved(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)

	f.client.SetConnectionPayload([]byte("client"))
	require.True(t, f.client.StartClient())
	f.poster.drain()

	require.Len(t, f.hostH.requests, 2)
	assert.Equal(t, uint64(1), f.hostH.requests[1].ClientID)
	assert.Equal(t, []byte("client"), f.hostH.requests[1].Payload)

	assert.Equal(t, []string{"connected:1"}, f.hostH.events)
	assert.Equal(t, []string{"connected:1"}, f.clH.events)
	assert.Equal(t, uint64(1), f.client.LocalClientID())
	assert.Equal(t, []uint64{0, 1}, f.host.ConnectedClientIDs())
	assert.Equal(t, []uint64{1}, f.client.ConnectedClientIDs())
}

func TestTransport_ClientDenied(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)
	f.hostH.approve = func(req types.ApprovalRequest) types.ApprovalResponse {
		var resp types.ApprovalResponse
		resp.Deny(types.StatusServerFull)
		return resp
	}

	require.True(t, f.client.StartClient())
	f.poster.drain()

	assert.Equal(t, []string{"disconnected:0"}, f.clH.events)
	assert.Equal(t, types.EncodeReason(types.StatusServerFull), f.client.DisconnectReason())
	assert.Empty(t, f.hostH.events)
	assert.Equal(t, []uint64{0}, f.host.ConnectedClientIDs())
}

func TestTransport_NoHost(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.client.StartClient())
	f.poster.drain()

	assert.Equal(t, []string{"disconnected:0"}, f.clH.events)
	assert.Empty(t, f.client.DisconnectReason())
	assert.Nil(t, f.client.ConnectedClientIDs())
}

func TestTransport_DisconnectClient(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)
	require.True(t, f.client.StartClient())
	f.poster.drain()
	f.hostH.events, f.clH.events = nil, nil

	reason := types.EncodeReason(types.StatusHostEndedSession)
	f.host.DisconnectClient(1, reason)
	f.host.DisconnectClient(42, reason)
	f.poster.drain()

	assert.Equal(t, []string{"disconnected:1"}, f.clH.events)
	assert.Equal(t, reason, f.client.DisconnectReason())
	assert.Equal(t, []string{"disconnected:1"}, f.hostH.events)
	assert.Equal(t, []uint64{0}, f.host.ConnectedClientIDs())

	// 客户端不能断开他人
	f.client.DisconnectClient(0, reason)
	f.poster.drain()
	assert.Equal(t, []string{"disconnected:1"}, f.hostH.events)
}

func TestTransport_ReasonClearedByShutdown(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)
	require.True(t, f.client.StartClient())
	f.poster.drain()

	reason := types.EncodeReason(types.StatusHostEndedSession)
	f.host.DisconnectClient(1, reason)
	f.poster.drain()
	require.Equal(t, reason, f.client.DisconnectReason())

	// 断开后回到离线时关闭传输层，旧原因不再可见
	f.client.Shutdown()
	assert.Empty(t, f.client.DisconnectReason())
}

func TestTransport_ReasonClearedByFailedStart(t *testing.T) {
	tr, err := NewTransport(NewNetwork(), &queuePoster{})
	require.NoError(t, err)

	// 未配置端点：启动失败也不能沿用上一次的原因
	tr.reason = types.EncodeReason(types.StatusServerFull)
	assert.False(t, tr.StartClient())
	assert.Empty(t, tr.DisconnectReason())

	tr.reason = types.EncodeReason(types.StatusServerFull)
	assert.False(t, tr.StartHost())
	assert.Empty(t, tr.DisconnectReason())
}

func TestTransport_HostShutdown(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)
	require.True(t, f.client.StartClient())
	f.poster.drain()
	f.hostH.events, f.clH.events = nil, nil

	f.host.Shutdown()
	f.poster.drain()

	assert.Empty(t, f.hostH.events, "local shutdown has no callbacks")
	assert.Equal(t, []string{"disconnected:1"}, f.clH.events)
	assert.Empty(t, f.client.DisconnectReason())
	assert.Empty(t, f.net.Endpoints())
	assert.Nil(t, f.host.ConnectedClientIDs())

	// 可重新启动
	f.hostH.events = nil
	require.True(t, f.host.StartHost())
	f.poster.drain()
	assert.Equal(t, []string{"server-started", "connected:0"}, f.hostH.events)
}

func TestTransport_ClientShutdown(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)
	require.True(t, f.client.StartClient())
	f.poster.drain()
	f.hostH.events, f.clH.events = nil, nil

	f.client.Shutdown()
	f.poster.drain()

	assert.Empty(t, f.clH.events)
	assert.Equal(t, []string{"disconnected:1"}, f.hostH.events)
	assert.Equal(t, []uint64{0}, f.host.ConnectedClientIDs())
}

func TestTransport_ClientShutdownBeforeAccepted(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)

	require.True(t, f.client.StartClient())
	f.client.Shutdown()
	f.poster.drain()

	assert.Empty(t, f.clH.events)
	assert.Equal(t, []string{"connected:1", "disconnected:1"}, f.hostH.events)
	assert.Equal(t, []uint64{0}, f.host.ConnectedClientIDs())
}

func TestTransport_StopServer(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)
	require.True(t, f.client.StartClient())
	f.poster.drain()
	f.hostH.events, f.clH.events = nil, nil

	f.host.StopServer()
	f.poster.drain()

	assert.Equal(t, []string{"server-stopped:true"}, f.hostH.events)
	assert.Equal(t, []string{"disconnected:1"}, f.clH.events)
	assert.Empty(t, f.net.Endpoints())
}

func TestTransport_Fail(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)

	f.host.Fail()
	f.poster.drain()
	assert.Equal(t, []string{"failure"}, f.hostH.events)
}

func TestTransport_RelayKey(t *testing.T) {
	f := newFixture(t)
	hostData := types.RelayServerData{AllocationID: "h", HostAllocationID: "h", Key: []byte("k1"), IsHost: true}
	f.host.SetRelayServerData(hostData)
	f.startHost(t)
	assert.Equal(t, []string{"relay/h"}, f.net.Endpoints())

	f.client.SetRelayServerData(types.RelayServerData{AllocationID: "c", HostAllocationID: "h", Key: []byte("bad")})
	require.True(t, f.client.StartClient())
	f.poster.drain()
	assert.Equal(t, []string{"disconnected:0"}, f.clH.events)

	f.clH.events = nil
	f.client.SetRelayServerData(types.RelayServerData{AllocationID: "c", HostAllocationID: "h", Key: []byte("k1")})
	require.True(t, f.client.StartClient())
	f.poster.drain()
	assert.Equal(t, []string{"connected:1"}, f.clH.events)
}

func TestTransport_HandlerRemoved(t *testing.T) {
	f := newFixture(t)
	remove := f.host.SetEventHandler(f.hostH)
	remove()

	require.True(t, f.host.StartHost())
	f.poster.drain()
	assert.Empty(t, f.hostH.events)
}

func TestTransport_PosterStopped(t *testing.T) {
	f := newFixture(t)
	f.startHost(t)

	clientPoster := &queuePoster{}
	client, err := NewTransport(f.net, clientPoster)
	require.NoError(t, err)
	h := &recordingHandler{}
	client.SetEventHandler(h)
	client.SetDirectEndpoint("127.0.0.1", 7777)

	f.poster.stopped = true
	require.True(t, client.StartClient())
	clientPoster.drain()
	assert.Equal(t, []string{"disconnected:0"}, h.events)
}

func TestModule(t *testing.T) {
	n := NewNetwork()
	var tr pkgif.Transport
	app := fxtest.New(t,
		fx.Supply(n),
		fx.Provide(func() Poster { return &queuePoster{} }),
		Module(),
		fx.Populate(&tr),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, tr)
	assert.Equal(t, ServerClientID, tr.LocalClientID())
}
