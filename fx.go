package netsession

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-netsession/config"
	"github.com/dep2p/go-netsession/internal/core/connection"
	"github.com/dep2p/go-netsession/internal/core/eventbus"
	"github.com/dep2p/go-netsession/internal/core/identity"
	"github.com/dep2p/go-netsession/internal/core/lobby"
	"github.com/dep2p/go-netsession/internal/core/memnet"
	"github.com/dep2p/go-netsession/internal/core/method"
	"github.com/dep2p/go-netsession/internal/core/relay"
	"github.com/dep2p/go-netsession/internal/core/session"
	"github.com/dep2p/go-netsession/internal/core/sessionbinder"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. 配置、事件总线、身份、会话注册表
//  2. 控制 goroutine 与连接（connection）
//  3. 传输层（memnet，回调投递到控制 goroutine）
//  4. 大厅、中继、连接方式
//  5. 会话绑定器
//
// 设置了共享环境时，传输网络、大厅目录和中继服务取自环境。
func buildFxApp(o *options, cfg *config.Config, peer *Peer) *fx.App {
	modules := []fx.Option{
		fx.Supply(cfg),

		eventbus.Module(),
		identity.Module(),
		session.Module(),
		connection.Module(),

		fx.Provide(provideLoopPoster),
		memnet.Module(),
		lobby.Module(),
		method.Module(),
		sessionbinder.Module(),
	}

	if o.clock != nil {
		clk := o.clock
		modules = append(modules, fx.Provide(func() clock.Clock { return clk }))
	}

	if o.env != nil {
		modules = append(modules,
			fx.Supply(o.env.Network, o.env.Lobbies, o.env.Relay),
			fx.Provide(provideSharedRelay),
		)
	} else {
		modules = append(modules, relay.Module())
	}

	if len(o.userFxOptions) > 0 {
		modules = append(modules, o.userFxOptions...)
	}

	modules = append(modules,
		fx.Invoke(injectPeerComponents(peer)),
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	return fx.New(modules...)
}

// provideLoopPoster 传输层回调投递到连接的控制 goroutine
func provideLoopPoster(loop *connection.Loop) memnet.Poster {
	return loop
}

// provideSharedRelay 共享环境中的中继服务
func provideSharedRelay(b *relay.Broker) pkgif.RelayService {
	return b
}

// peerComponents Peer 需要的内部组件
type peerComponents struct {
	fx.In

	Conn      *connection.Connection
	Loop      *connection.Loop
	Transport *memnet.Transport
	Lobby     *lobby.Client
	Sessions  *session.Directory
	Auth      pkgif.AuthService
	Bus       pkgif.EventBus
	Binder    *sessionbinder.Binder
}

func injectPeerComponents(peer *Peer) func(peerComponents) {
	return func(c peerComponents) {
		peer.conn = c.Conn
		peer.loop = c.Loop
		peer.transport = c.Transport
		peer.lobby = c.Lobby
		peer.sessions = c.Sessions
		peer.auth = c.Auth
		peer.bus = c.Bus
	}
}
