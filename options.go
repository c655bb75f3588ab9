package netsession

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/dep2p/go-netsession/config"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置（nil 表示使用默认配置或配置文件）
	config     *config.Config
	configFile string

	// 共享环境
	env *Environment

	// 覆盖项
	playerName string
	playerID   string
	keyFile    string
	maxPlayers int
	debugBuild *bool
	method     struct {
		kind    string
		address string
		port    uint16
		region  string
	}

	// 测试用时钟
	clock clock.Clock

	// 用户扩展
	userFxOptions []fx.Option
}

func newOptions() *options {
	return &options{}
}

// toConfig 生成最终配置
//
// 顺序：基础配置（WithConfig / WithConfigFile / 默认）→ 选项覆盖 → 校验。
func (o *options) toConfig() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case o.config != nil:
		cfg = o.config.Clone()
	case o.configFile != "":
		loaded, err := config.LoadFile(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		cfg = config.NewConfig()
	}

	if o.playerName != "" {
		cfg.Identity.PlayerName = o.playerName
	}
	if o.playerID != "" {
		cfg.Identity.PlayerID = o.playerID
		cfg.Identity.KeyFile = ""
	}
	if o.keyFile != "" {
		cfg.Identity.KeyFile = o.keyFile
		cfg.Identity.PlayerID = ""
	}
	if o.maxPlayers > 0 {
		cfg.Connection.MaxConnectedPlayers = o.maxPlayers
	}
	if o.debugBuild != nil {
		cfg.Connection.DebugBuild = *o.debugBuild
	}
	switch o.method.kind {
	case config.MethodDirect:
		cfg.Method.Kind = config.MethodDirect
		cfg.Method.Address = o.method.address
		cfg.Method.Port = o.method.port
	case config.MethodRelay:
		cfg.Method.Kind = config.MethodRelay
		cfg.Method.Region = o.method.region
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ============================================================================
//                              配置选项
// ============================================================================

// WithConfig 使用指定配置作为基础
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: config is nil", ErrInvalidOption)
		}
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从文件加载基础配置（.json / .yaml / .yml）
func WithConfigFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return fmt.Errorf("%w: config file path is empty", ErrInvalidOption)
		}
		o.configFile = path
		return nil
	}
}

// WithEnvironment 加入共享环境
func WithEnvironment(env *Environment) Option {
	return func(o *options) error {
		if env == nil {
			return fmt.Errorf("%w: environment is nil", ErrInvalidOption)
		}
		o.env = env
		return nil
	}
}

// ============================================================================
//                              身份选项
// ============================================================================

// WithPlayerName 设置玩家显示名
func WithPlayerName(name string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("%w: player name is empty", ErrInvalidOption)
		}
		o.playerName = name
		return nil
	}
}

// WithPlayerID 使用固定玩家 ID
func WithPlayerID(id string) Option {
	return func(o *options) error {
		if id == "" {
			return fmt.Errorf("%w: player id is empty", ErrInvalidOption)
		}
		o.playerID = id
		o.keyFile = ""
		return nil
	}
}

// WithIdentityFromFile 从密钥文件派生玩家 ID
//
// 文件不存在时自动生成并保存。
func WithIdentityFromFile(path string) Option {
	return func(o *options) error {
		if path == "" {
			return fmt.Errorf("%w: key file path is empty", ErrInvalidOption)
		}
		o.keyFile = path
		o.playerID = ""
		return nil
	}
}

// ============================================================================
//                              连接选项
// ============================================================================

// WithMaxPlayers 设置会话容量（含主机）
func WithMaxPlayers(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("%w: max players must be positive", ErrInvalidOption)
		}
		o.maxPlayers = n
		return nil
	}
}

// WithDebugBuild 设置构建类型
func WithDebugBuild(debug bool) Option {
	return func(o *options) error {
		o.debugBuild = &debug
		return nil
	}
}

// WithDirectMethod 使用直连方式
func WithDirectMethod(address string, port uint16) Option {
	return func(o *options) error {
		if address == "" || port == 0 {
			return fmt.Errorf("%w: direct endpoint %s:%d", ErrInvalidOption, address, port)
		}
		o.method.kind = config.MethodDirect
		o.method.address = address
		o.method.port = port
		return nil
	}
}

// WithRelayMethod 使用中继方式，region 为空时由中继服务选择
func WithRelayMethod(region string) Option {
	return func(o *options) error {
		o.method.kind = config.MethodRelay
		o.method.region = region
		return nil
	}
}

// ============================================================================
//                              扩展选项
// ============================================================================

// WithClock 替换会话注册表使用的时钟
func WithClock(clk clock.Clock) Option {
	return func(o *options) error {
		if clk == nil {
			return fmt.Errorf("%w: clock is nil", ErrInvalidOption)
		}
		o.clock = clk
		return nil
	}
}

// WithFxOptions 追加用户 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
