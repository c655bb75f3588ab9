package netsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-netsession/config"
	"github.com/dep2p/go-netsession/internal/core/connection"
	"github.com/dep2p/go-netsession/internal/core/lobby"
	"github.com/dep2p/go-netsession/internal/core/memnet"
	"github.com/dep2p/go-netsession/internal/core/session"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

var logger = log.Logger("netsession")

const (
	// startTimeout Fx App 启动超时
	startTimeout = 30 * time.Second

	// stopTimeout Close 使用的停止超时
	stopTimeout = 10 * time.Second
)

// Peer 会话参与方
//
// 用户意图（StartHost、StartClient、RequestShutdown）投递到控制
// goroutine 执行，调用方可以在任意 goroutine 上调用。
type Peer struct {
	cfg *config.Config
	app *fx.App

	conn      *connection.Connection
	loop      *connection.Loop
	transport *memnet.Transport
	lobby     *lobby.Client
	sessions  *session.Directory
	auth      pkgif.AuthService
	bus       pkgif.EventBus

	mu      sync.Mutex
	started bool
	closed  bool
}

// New 创建 Peer，需调用 Start 后使用
func New(opts ...Option) (*Peer, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	cfg, err := o.toConfig()
	if err != nil {
		return nil, err
	}

	p := &Peer{cfg: cfg}
	p.app = buildFxApp(o, cfg, p)
	if err := p.app.Err(); err != nil {
		return nil, fmt.Errorf("build peer: %w", err)
	}
	return p, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// Start 启动 Peer
func (p *Peer) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPeerClosed
	}
	if p.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := p.app.Start(startCtx); err != nil {
		logger.Error("Peer 启动失败", "err", err)
		return fmt.Errorf("start failed: %w", err)
	}
	p.started = true
	logger.Info("Peer 已启动",
		"player", log.TruncateID(p.auth.PlayerID(), 8),
		"name", p.cfg.Identity.PlayerName,
		"method", p.cfg.Method.Kind)
	return nil
}

// Stop 停止 Peer
//
// 在线时先按用户请求关闭处理（主机断开全部客户端），然后关闭传输层。
func (p *Peer) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if !p.started {
		return nil
	}
	if err := p.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	logger.Info("Peer 已停止", "name", p.cfg.Identity.PlayerName)
	return nil
}

// Close 以默认超时停止 Peer
func (p *Peer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return p.Stop(ctx)
}

// ============================================================================
//                              用户意图
// ============================================================================

// StartHost 以主机身份创建会话
//
// 中继方式需先通过 Lobby() 创建大厅。
func (p *Peer) StartHost(ctx context.Context) error {
	return p.do(ctx, func() {
		p.conn.StartHost(p.cfg.Identity.PlayerName)
	})
}

// StartClient 以客户端身份加入会话
//
// 中继方式需先通过 Lobby() 加入大厅。
func (p *Peer) StartClient(ctx context.Context) error {
	return p.do(ctx, func() {
		p.conn.StartClient(p.cfg.Identity.PlayerName)
	})
}

// RequestShutdown 离开或结束会话
func (p *Peer) RequestShutdown(ctx context.Context) error {
	return p.do(ctx, p.conn.RequestShutdown)
}

// do 在控制 goroutine 上执行 fn 并等待完成
func (p *Peer) do(ctx context.Context, fn func()) error {
	p.mu.Lock()
	started, closed := p.started, p.closed
	p.mu.Unlock()

	if closed {
		return ErrPeerClosed
	}
	if !started {
		return ErrNotStarted
	}
	return p.loop.Do(ctx, fn)
}

// ============================================================================
//                              查询
// ============================================================================

// PlayerID 返回玩家 ID
func (p *Peer) PlayerID() string {
	return p.auth.PlayerID()
}

// PlayerName 返回玩家显示名
func (p *Peer) PlayerName() string {
	return p.cfg.Identity.PlayerName
}

// Config 返回配置副本
func (p *Peer) Config() *config.Config {
	return p.cfg.Clone()
}

// Status 返回最近一次上报的状态原因
func (p *Peer) Status() types.ConnectionStatus {
	return p.conn.Status()
}

// StateKind 返回当前阶段
func (p *Peer) StateKind() types.ConnectionStateKind {
	return p.conn.StateKind()
}

// Lobby 返回大厅视图
func (p *Peer) Lobby() *lobby.Client {
	return p.lobby
}

// Sessions 返回会话注册表（主机侧有效）
func (p *Peer) Sessions() *session.Directory {
	return p.sessions
}

// Transport 返回进程内传输层
func (p *Peer) Transport() *memnet.Transport {
	return p.transport
}

// EventBus 返回事件总线
//
// 连接事件和 ConnectionEventMessage 均发布在此总线上。
func (p *Peer) EventBus() pkgif.EventBus {
	return p.bus
}

// ============================================================================
//                              事件
// ============================================================================

// Subscribe 注册同步监听，回调在控制 goroutine 上执行，不应阻塞
func (p *Peer) Subscribe(fn func(types.Event)) (unsubscribe func()) {
	return p.conn.Subscribe(fn)
}

// AwaitState 等待进入 kinds 中任一阶段
//
// 当前已处于其中之一时立即返回。
func (p *Peer) AwaitState(ctx context.Context, kinds ...types.ConnectionStateKind) (types.ConnectionStateKind, error) {
	match := func(k types.ConnectionStateKind) bool {
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
		return false
	}

	ch := make(chan types.ConnectionStateKind, 16)
	unsubscribe := p.conn.Subscribe(func(ev types.Event) {
		if e, ok := ev.(types.StateChangedEvent); ok {
			select {
			case ch <- e.Current:
			default:
			}
		}
	})
	defer unsubscribe()

	if cur := p.conn.StateKind(); match(cur) {
		return cur, nil
	}
	for {
		select {
		case k := <-ch:
			if match(k) {
				return k, nil
			}
		case <-ctx.Done():
			return p.conn.StateKind(), ctx.Err()
		}
	}
}

// AwaitStatus 等待下一次上报 statuses 中任一状态原因
//
// 只观察调用之后的上报。
func (p *Peer) AwaitStatus(ctx context.Context, statuses ...types.ConnectionStatus) (types.ConnectionStatus, error) {
	ch := make(chan types.ConnectionStatus, 16)
	unsubscribe := p.conn.Subscribe(func(ev types.Event) {
		if e, ok := ev.(types.StatusChangedEvent); ok {
			select {
			case ch <- e.Status:
			default:
			}
		}
	})
	defer unsubscribe()

	for {
		select {
		case s := <-ch:
			for _, want := range statuses {
				if s == want {
					return s, nil
				}
			}
		case <-ctx.Done():
			return p.conn.Status(), ctx.Err()
		}
	}
}
