package memnet

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Poster Poster

	// Network 共享网络（可选，缺省创建私有网络）
	Network *Network `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Transport    *Transport
	PkgTransport pkgif.Transport
}

// ProvideTransport 提供进程内传输层
func ProvideTransport(in ModuleInput) (ModuleOutput, error) {
	n := in.Network
	if n == nil {
		n = NewNetwork()
	}
	t, err := NewTransport(n, in.Poster)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Transport: t, PkgTransport: t}, nil
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("memnet",
		fx.Provide(ProvideTransport),
	)
}
