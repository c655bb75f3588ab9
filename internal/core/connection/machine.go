package connection

import (
	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

var logger = log.Logger("core/connection")

// ============================================================================
//                              Machine 结构
// ============================================================================

// Machine 连接状态机
//
// 持有唯一的当前状态，执行状态转换，并把传输层事件转发给分派时的
// 当前状态。Machine 不加锁，所有方法都须在控制 goroutine 上调用。
type Machine struct {
	current State
	sink    func(types.Event)

	// busy 为 true 表示正在分派，新到达的工作进入 pending
	busy bool
	// transitioning 为 true 表示正在执行 exit/enter
	transitioning bool
	pending       []func()
}

// NewMachine 创建状态机
//
// sink 接收状态机发出的全部事件，可以为 nil。
func NewMachine(sink func(types.Event)) *Machine {
	if sink == nil {
		sink = func(types.Event) {}
	}
	return &Machine{sink: sink}
}

// Current 返回当前状态，尚未安装初始状态时返回 nil
func (m *Machine) Current() State {
	return m.current
}

// CurrentKind 返回当前阶段
func (m *Machine) CurrentKind() (types.ConnectionStateKind, bool) {
	if m.current == nil {
		return types.StateOffline, false
	}
	return m.current.Kind(), true
}

// IsCurrent 检查 s 是否仍是当前状态实例
func (m *Machine) IsCurrent(s State) bool {
	return m.current != nil && m.current == s
}

// ============================================================================
//                              串行分派
// ============================================================================

// Dispatch 串行执行 fn
//
// 若已有分派正在进行，fn 排队并在其结束后执行；否则立即执行，并在返回前
// 清空期间排队的工作。
func (m *Machine) Dispatch(fn func()) {
	if m.busy {
		m.pending = append(m.pending, fn)
		return
	}

	m.busy = true
	defer func() {
		m.busy = false
	}()

	fn()
	for len(m.pending) > 0 {
		next := m.pending[0]
		m.pending[0] = nil
		m.pending = m.pending[1:]
		next()
	}
	m.pending = nil
}

// Defer 把 fn 排到当前分派之后执行
//
// 不在分派中时等同于 Dispatch。
func (m *Machine) Defer(fn func()) {
	if m.busy {
		m.pending = append(m.pending, fn)
		return
	}
	m.Dispatch(fn)
}

// ============================================================================
//                              状态转换
// ============================================================================

// ChangeState 转换到 next
//
// next 与当前状态为同一实例时不做任何事。否则依次执行：当前状态 Exit、
// 安装 next、next Enter、发出 StateChangedEvent。在 Exit/Enter 期间请求的
// 转换会排队到本次转换完成之后。
func (m *Machine) ChangeState(next State) {
	if next == nil {
		return
	}
	if !m.busy {
		m.Dispatch(func() { m.ChangeState(next) })
		return
	}
	if m.transitioning {
		m.pending = append(m.pending, func() { m.ChangeState(next) })
		return
	}
	if m.current == next {
		return
	}

	m.transitioning = true
	prev := m.current
	if prev != nil {
		prev.Exit()
	}
	m.current = next
	next.Enter()
	m.transitioning = false

	if prev != nil {
		logger.Info("连接状态变更",
			"from", prev.Kind().String(),
			"to", next.Kind().String())
		m.Emit(types.NewStateChangedEvent(prev.Kind(), true, next.Kind()))
		return
	}
	logger.Info("连接状态初始化", "to", next.Kind().String())
	m.Emit(types.NewStateChangedEvent(types.StateOffline, false, next.Kind()))
}

// Emit 发出事件
func (m *Machine) Emit(ev types.Event) {
	m.sink(ev)
}

// EmitStatus 发出状态原因变更事件
func (m *Machine) EmitStatus(status types.ConnectionStatus) {
	logger.Debug("连接状态原因", "status", status.String())
	m.Emit(types.NewStatusChangedEvent(status))
}

// ============================================================================
//                              用户意图
// ============================================================================

// StartClient 以客户端身份启动
func (m *Machine) StartClient(playerName string) {
	m.forward(func(s State) { s.StartClient(playerName) })
}

// StartHost 以主机身份启动
func (m *Machine) StartHost(playerName string) {
	m.forward(func(s State) { s.StartHost(playerName) })
}

// RequestShutdown 请求关闭
func (m *Machine) RequestShutdown() {
	m.forward(func(s State) { s.RequestShutdown() })
}

// ============================================================================
//                              传输层事件
// ============================================================================

// OnClientConnected 转发连接建立事件
func (m *Machine) OnClientConnected(clientID uint64) {
	m.forward(func(s State) { s.OnClientConnected(clientID) })
}

// OnClientDisconnected 转发连接断开事件
func (m *Machine) OnClientDisconnected(clientID uint64) {
	m.forward(func(s State) { s.OnClientDisconnected(clientID) })
}

// OnServerStarted 转发服务端启动事件
func (m *Machine) OnServerStarted() {
	m.forward(func(s State) { s.OnServerStarted() })
}

// OnServerStopped 转发服务端停止事件
func (m *Machine) OnServerStopped(wasHost bool) {
	m.forward(func(s State) { s.OnServerStopped(wasHost) })
}

// OnTransportFailure 转发传输层故障
func (m *Machine) OnTransportFailure() {
	m.forward(func(s State) { s.OnTransportFailure() })
}

// ApprovalCheck 在当前状态上执行准入检查
//
// 准入结果须同步返回，因此不经过排队，即使正处于另一次分派中。
// 检查完成后发出带阶段标记的 ApprovalEvent。
func (m *Machine) ApprovalCheck(req types.ApprovalRequest) types.ApprovalResponse {
	if m.current == nil {
		return types.ApprovalResponse{}
	}
	s := m.current
	resp := s.ApprovalCheck(req)
	m.Emit(types.NewApprovalEvent(s.Kind(), req, resp))
	return resp
}

// forward 在分派时刻的当前状态上执行 fn
func (m *Machine) forward(fn func(State)) {
	m.Dispatch(func() {
		if m.current != nil {
			fn(m.current)
		}
	})
}
