package method

import (
	"fmt"

	"github.com/dep2p/go-netsession/config"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// NewFactory 按配置创建连接方式工厂
func NewFactory(cfg config.MethodConfig, deps Deps) (pkgif.ConnectionMethodFactory, error) {
	if deps.Transport == nil || deps.Auth == nil {
		return nil, fmt.Errorf("%w: transport and auth are required", ErrMissingDependency)
	}
	if deps.Region == "" {
		deps.Region = cfg.Region
	}

	switch cfg.Kind {
	case config.MethodDirect:
		return func(playerName string) pkgif.ConnectionMethod {
			return NewDirect(deps, playerName, cfg.Address, cfg.Port)
		}, nil
	case config.MethodRelay:
		if deps.Relay == nil || deps.Lobby == nil {
			return nil, fmt.Errorf("%w: relay method needs relay and lobby services", ErrMissingDependency)
		}
		return func(playerName string) pkgif.ConnectionMethod {
			return NewRelay(deps, playerName)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
