package connection

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-netsession/config"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// Module 返回 Fx 模块
//
// 提供控制 goroutine（*Loop）、任务执行器和 *Connection。
func Module() fx.Option {
	return fx.Module("connection",
		fx.Provide(
			provideConfig,
			NewLoop,
			ProvideRunner,
			ProvideConnection,
		),
		fx.Invoke(registerLifecycle),
	)
}

// configInput 配置输入
type configInput struct {
	fx.In
	Config *config.Config `optional:"true"`
}

func provideConfig(in configInput) Config {
	return ConfigFromUnified(in.Config)
}

// ProvideRunner 提供绑定到 Loop 的任务执行器
func ProvideRunner(loop *Loop) TaskRunner {
	return NewLoopRunner(loop)
}

// Params 连接构造参数
type Params struct {
	fx.In

	Config    Config
	Transport pkgif.Transport
	Registry  pkgif.SessionRegistry
	NewMethod pkgif.ConnectionMethodFactory
	Runner    TaskRunner
	Lobby     pkgif.LobbyService `optional:"true"`
	Bus       pkgif.EventBus     `optional:"true"`
}

// ProvideConnection 提供连接
func ProvideConnection(p Params) (*Connection, error) {
	return New(p.Config, Deps{
		Transport: p.Transport,
		Registry:  p.Registry,
		NewMethod: p.NewMethod,
		Lobby:     p.Lobby,
		Runner:    p.Runner,
		Bus:       p.Bus,
	})
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC     fx.Lifecycle
	Loop   *Loop
	Conn   *Connection
	Runner TaskRunner
}

// registerLifecycle 启动时运行 Loop；停止时在 Loop 上关闭连接后停止 Loop
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			input.Loop.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var closeErr error
			err := input.Loop.Do(ctx, func() {
				closeErr = input.Conn.Close()
			})
			input.Loop.Stop()
			if r, ok := input.Runner.(*LoopRunner); ok {
				r.Wait()
			}
			if err != nil {
				return err
			}
			return closeErr
		},
	})
}
