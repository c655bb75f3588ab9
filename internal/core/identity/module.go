package identity

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-netsession/config"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// ============================================================================
//                              模块输入输出
// ============================================================================

// ModuleInput 定义模块输入依赖
type ModuleInput struct {
	fx.In

	// 统一配置（可选，缺省生成临时身份）
	Config *config.Config `optional:"true"`
}

// ModuleOutput 定义模块输出服务
type ModuleOutput struct {
	fx.Out

	Auth pkgif.AuthService
}

// ============================================================================
//                              服务提供
// ============================================================================

// ProvideAuth 按配置提供认证服务
//
// 优先级：固定 PlayerID > KeyFile 持久化身份 > 临时生成身份。
func ProvideAuth(in ModuleInput) (ModuleOutput, error) {
	auth, err := FromConfig(in.Config)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Auth: auth}, nil
}

// FromConfig 按配置创建认证服务
func FromConfig(cfg *config.Config) (pkgif.AuthService, error) {
	if cfg != nil {
		if cfg.Identity.PlayerID != "" {
			return NewStatic(cfg.Identity.PlayerID)
		}
		if cfg.Identity.KeyFile != "" {
			return LoadOrCreate(cfg.Identity.KeyFile)
		}
	}
	return Generate()
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("identity",
		fx.Provide(ProvideAuth),
	)
}
