package method

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-netsession/config"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// Module 返回 Fx 模块，提供 pkgif.ConnectionMethodFactory
func Module() fx.Option {
	return fx.Module("method",
		fx.Provide(ProvideFactory),
	)
}

// Params 工厂构造参数
type Params struct {
	fx.In

	Config    *config.Config `optional:"true"`
	Transport pkgif.Transport
	Auth      pkgif.AuthService
	Relay     pkgif.RelayService `optional:"true"`
	Lobby     pkgif.LobbyService `optional:"true"`
}

// ProvideFactory 提供连接方式工厂
func ProvideFactory(p Params) (pkgif.ConnectionMethodFactory, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return NewFactory(cfg.Method, Deps{
		Transport:           p.Transport,
		Auth:                p.Auth,
		Relay:               p.Relay,
		Lobby:               p.Lobby,
		MaxConnectedPlayers: cfg.Connection.MaxConnectedPlayers,
		DebugBuild:          cfg.Connection.DebugBuild,
		Region:              cfg.Method.Region,
	})
}
