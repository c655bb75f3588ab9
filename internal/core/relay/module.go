package relay

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// Config Broker 配置（可选）
	Config *Config `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Broker  *Broker
	Service pkgif.RelayService
}

// ProvideBroker 提供中继分配服务
func ProvideBroker(in ModuleInput) (ModuleOutput, error) {
	cfg := DefaultConfig()
	if in.Config != nil {
		cfg = *in.Config
	}
	b, err := NewBroker(cfg)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Broker: b, Service: b}, nil
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("relay",
		fx.Provide(ProvideBroker),
	)
}
