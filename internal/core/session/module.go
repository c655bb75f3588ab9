package session

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Directory *Directory
	Registry  pkgif.SessionRegistry
	Sessions  pkgif.SessionDirectory
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("session",
		fx.Provide(ProvideDirectory),
	)
}

type directoryInput struct {
	fx.In
	Clock clock.Clock `optional:"true"`
}

// ProvideDirectory 提供会话注册表
func ProvideDirectory(in directoryInput) Result {
	d := NewDirectory(in.Clock)
	return Result{Directory: d, Registry: d, Sessions: d}
}
