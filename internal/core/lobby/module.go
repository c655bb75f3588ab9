package lobby

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	Auth pkgif.AuthService

	// Directory 共享大厅存储（可选，缺省创建私有存储）
	Directory *Directory `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Client  *Client
	Service pkgif.LobbyService
}

// ProvideClient 提供大厅视图
func ProvideClient(in ModuleInput) ModuleOutput {
	dir := in.Directory
	if dir == nil {
		dir = NewDirectory()
	}
	c := NewClient(dir, in.Auth)
	return ModuleOutput{Client: c, Service: c}
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("lobby",
		fx.Provide(ProvideClient),
	)
}
