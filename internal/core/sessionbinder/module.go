package sessionbinder

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-netsession/internal/core/connection"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("sessionbinder",
		fx.Provide(ProvideBinder),
		fx.Invoke(registerLifecycle),
	)
}

// Params 绑定器构造参数
type Params struct {
	fx.In

	Conn     *connection.Connection
	Sessions pkgif.SessionDirectory
	Bus      pkgif.EventBus `optional:"true"`
}

// ProvideBinder 提供绑定器
func ProvideBinder(p Params) (*Binder, error) {
	return New(p.Conn, p.Sessions, p.Bus)
}

func registerLifecycle(lc fx.Lifecycle, b *Binder) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return b.Close()
		},
	})
}
