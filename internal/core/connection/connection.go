package connection

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// Deps 连接依赖的协作者
type Deps struct {
	// Transport 传输层（必需）
	Transport pkgif.Transport

	// Registry 会话注册表（必需）
	Registry pkgif.SessionRegistry

	// NewMethod 连接方式工厂（必需）
	NewMethod pkgif.ConnectionMethodFactory

	// Lobby 大厅目录（可选，直连方式可不提供）
	Lobby pkgif.LobbyService

	// Runner 带外任务执行器（可选，默认 SyncRunner）
	Runner TaskRunner

	// Bus 事件总线（可选）
	Bus pkgif.EventBus
}

// Listener 同步事件监听函数
//
// 在控制 goroutine 上调用，不应阻塞。
type Listener = func(types.Event)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Connection 连接门面
//
// 持有状态机和全部协作者，对外提供启动、关闭和事件订阅。除 Status、
// StateKind、Subscribe 和 Close 外，方法须在控制 goroutine 上调用。
type Connection struct {
	cfg Config

	transport pkgif.Transport
	registry  pkgif.SessionRegistry
	lobby     pkgif.LobbyService
	newMethod pkgif.ConnectionMethodFactory
	runner    TaskRunner

	machine  *Machine
	approval *approvalValidator

	ctx           context.Context
	cancel        context.CancelFunc
	removeHandler func()

	status atomic.Int32
	kind   atomic.Int32
	closed atomic.Bool

	mu        sync.RWMutex
	listeners []listenerEntry
	nextID    uint64

	emitters map[string]pkgif.Emitter
}

// New 创建连接并安装初始 OFFLINE 状态
func New(cfg Config, deps Deps) (*Connection, error) {
	if deps.Transport == nil {
		return nil, ErrNilTransport
	}
	if deps.Registry == nil {
		return nil, ErrNilRegistry
	}
	if deps.NewMethod == nil {
		return nil, ErrNilMethodFactory
	}
	if deps.Runner == nil {
		deps.Runner = SyncRunner{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		cfg:       cfg,
		transport: deps.Transport,
		registry:  deps.Registry,
		lobby:     deps.Lobby,
		newMethod: deps.NewMethod,
		runner:    deps.Runner,
		approval:  newApprovalValidator(cfg, deps.Transport, deps.Registry),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.status.Store(int32(types.StatusUndefined))
	c.kind.Store(int32(types.StateOffline))

	if deps.Bus != nil {
		emitters, err := newEmitters(deps.Bus)
		if err != nil {
			cancel()
			return nil, err
		}
		c.emitters = emitters
	}

	c.machine = NewMachine(c.onEvent)
	c.removeHandler = deps.Transport.SetEventHandler(transportHandler{c})
	c.machine.ChangeState(newOfflineState(c))

	return c, nil
}

// newEmitters 为每种连接事件创建发射器
func newEmitters(bus pkgif.EventBus) (map[string]pkgif.Emitter, error) {
	statusEm, err := bus.Emitter(new(types.StatusChangedEvent), pkgif.Stateful())
	if err != nil {
		return nil, err
	}
	stateEm, err := bus.Emitter(new(types.StateChangedEvent), pkgif.Stateful())
	if err != nil {
		return nil, err
	}
	connectedEm, err := bus.Emitter(new(types.ClientConnectedEvent))
	if err != nil {
		return nil, err
	}
	disconnectedEm, err := bus.Emitter(new(types.ClientDisconnectedEvent))
	if err != nil {
		return nil, err
	}
	approvalEm, err := bus.Emitter(new(types.ApprovalEvent))
	if err != nil {
		return nil, err
	}

	return map[string]pkgif.Emitter{
		types.EventStatusChanged:          statusEm,
		types.EventStateChanged:           stateEm,
		types.EventClientConnectedToHost:  connectedEm,
		types.EventClientDisconnectedHost: disconnectedEm,
		types.EventConnectionApproved:     approvalEm,
		types.EventConnectionDisapproved:  approvalEm,
	}, nil
}

// ============================================================================
//                              用户意图
// ============================================================================

// StartClient 以客户端身份加入会话
func (c *Connection) StartClient(playerName string) {
	if c.closed.Load() {
		return
	}
	c.machine.StartClient(playerName)
}

// StartHost 以主机身份创建会话
func (c *Connection) StartHost(playerName string) {
	if c.closed.Load() {
		return
	}
	c.machine.StartHost(playerName)
}

// RequestShutdown 请求离开或结束会话
func (c *Connection) RequestShutdown() {
	if c.closed.Load() {
		return
	}
	c.machine.RequestShutdown()
}

// ============================================================================
//                              查询与订阅
// ============================================================================

// Status 返回最近一次上报的状态原因
func (c *Connection) Status() types.ConnectionStatus {
	return types.ConnectionStatus(c.status.Load())
}

// StateKind 返回当前阶段
func (c *Connection) StateKind() types.ConnectionStateKind {
	return types.ConnectionStateKind(c.kind.Load())
}

// Subscribe 注册同步监听，返回取消函数
func (c *Connection) Subscribe(fn Listener) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listenerEntry{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, l := range c.listeners {
				if l.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Close 关闭连接
//
// 在线时先按用户请求关闭处理，然后注销传输层回调并关闭发射器。
// 须在控制 goroutine 上调用。
func (c *Connection) Close() error {
	if c.closed.Load() {
		return nil
	}
	c.machine.RequestShutdown()
	c.closed.Store(true)

	c.removeHandler()
	c.cancel()

	var err error
	seen := make(map[pkgif.Emitter]struct{}, len(c.emitters))
	for _, em := range c.emitters {
		if _, ok := seen[em]; ok {
			continue
		}
		seen[em] = struct{}{}
		err = multierr.Append(err, em.Close())
	}
	return err
}

// ============================================================================
//                              内部
// ============================================================================

// onEvent 状态机事件出口
func (c *Connection) onEvent(ev types.Event) {
	switch e := ev.(type) {
	case types.StatusChangedEvent:
		c.status.Store(int32(e.Status))
	case types.StateChangedEvent:
		c.kind.Store(int32(e.Current))
	}

	c.mu.RLock()
	listeners := make([]listenerEntry, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()

	for _, l := range listeners {
		l.fn(ev)
	}

	if em, ok := c.emitters[ev.Type()]; ok {
		if err := em.Emit(ev); err != nil {
			logger.Debug("事件总线发射失败", "type", ev.Type(), "err", err)
		}
	}
}

// runTask 执行带外任务，完成回调回到状态机分派
func (c *Connection) runTask(task func() error, done func(error)) {
	c.runner.Run(task, func(err error) {
		c.machine.Dispatch(func() { done(err) })
	})
}

// setupContext 创建带准备超时的 context
func (c *Connection) setupContext() (context.Context, context.CancelFunc) {
	if c.cfg.SetupTimeout > 0 {
		return context.WithTimeout(c.ctx, c.cfg.SetupTimeout)
	}
	return context.WithCancel(c.ctx)
}

// runSetup 执行连接准备
//
// owner 不再是当前状态时忽略结果。
func (c *Connection) runSetup(owner State, setup func(context.Context) error, done func(error)) {
	c.runTask(func() error {
		ctx, cancel := c.setupContext()
		defer cancel()
		return setup(ctx)
	}, func(err error) {
		if c.closed.Load() {
			return
		}
		if !c.machine.IsCurrent(owner) {
			logger.Info("忽略过期的连接准备结果",
				"state", owner.Kind().String(),
				"err", err)
			return
		}
		done(err)
	})
}

// runBackground 执行不影响状态的后台任务，失败只记录日志
func (c *Connection) runBackground(name string, fn func(context.Context) error) {
	c.runTask(func() error {
		ctx, cancel := c.setupContext()
		defer cancel()
		return fn(ctx)
	}, func(err error) {
		if err != nil {
			logger.Warn("后台任务失败", "task", name, "err", err)
		}
	})
}

// checkApproval 完整准入校验，因规则被拒绝的玩家同时被移出大厅
func (c *Connection) checkApproval(req types.ApprovalRequest) types.ApprovalResponse {
	res := c.approval.validate(req)
	if res.response.Approved {
		return res.response
	}

	logger.Info("拒绝准入请求",
		"client", req.ClientID,
		"status", res.status.String())

	if res.payload != nil && c.lobby != nil {
		lobby := c.lobby
		playerID := res.payload.PlayerID
		c.runBackground("kick player", func(ctx context.Context) error {
			return lobby.KickPlayer(ctx, playerID)
		})
	}
	return res.response
}

// beginLobbyTracking 有大厅时开始跟踪
func (c *Connection) beginLobbyTracking() {
	if c.lobby == nil || c.lobby.CurrentLobby() == nil {
		logger.Debug("没有可跟踪的大厅")
		return
	}
	c.lobby.BeginTracking()
}

// ============================================================================
//                              传输层回调适配
// ============================================================================

// transportHandler 把传输层回调转发给状态机
type transportHandler struct {
	c *Connection
}

var _ pkgif.TransportEventHandler = transportHandler{}

func (h transportHandler) OnClientConnected(clientID uint64) {
	h.c.machine.OnClientConnected(clientID)
}

func (h transportHandler) OnClientDisconnected(clientID uint64) {
	h.c.machine.OnClientDisconnected(clientID)
}

func (h transportHandler) OnServerStarted() {
	h.c.machine.OnServerStarted()
}

func (h transportHandler) OnServerStopped(wasHost bool) {
	h.c.machine.OnServerStopped(wasHost)
}

func (h transportHandler) ApprovalCheck(req types.ApprovalRequest) types.ApprovalResponse {
	return h.c.machine.ApprovalCheck(req)
}

func (h transportHandler) OnTransportFailure() {
	h.c.machine.OnTransportFailure()
}
