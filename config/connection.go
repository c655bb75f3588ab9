package config

import (
	"fmt"
	"time"
)

// 主机启动阶段非本端准入请求的处理策略
const (
	// StartingHostDeny 直接拒绝
	StartingHostDeny = "deny"
	// StartingHostValidate 按 Hosting 阶段的完整规则校验
	StartingHostValidate = "validate"
)

// ConnectionConfig 连接状态机配置
type ConnectionConfig struct {
	// MaxConnectedPlayers 最大在线玩家数（含主机本身）
	MaxConnectedPlayers int `json:"max_connected_players" yaml:"max_connected_players"`

	// DebugBuild 本端是否为调试构建
	// 准入时与对端载荷中的 is_debug 比较
	DebugBuild bool `json:"debug_build" yaml:"debug_build"`

	// StartingHostApproval 主机启动阶段收到非本端准入请求时的策略
	// 取值: deny（默认）/ validate
	StartingHostApproval string `json:"starting_host_approval" yaml:"starting_host_approval"`

	// SetupTimeout 连接准备（中继分配、大厅发布）超时
	// 0 表示不设超时
	SetupTimeout Duration `json:"setup_timeout" yaml:"setup_timeout"`

	// ApprovalRateLimit 每秒允许的准入检查次数
	// 0 表示不限制；启用后相同请求可能因令牌耗尽得到不同结果
	ApprovalRateLimit float64 `json:"approval_rate_limit" yaml:"approval_rate_limit"`

	// ApprovalBurst 准入检查突发容量
	ApprovalBurst int `json:"approval_burst" yaml:"approval_burst"`

	// DeleteLobbyOnShutdown 主机主动关闭时是否删除大厅
	DeleteLobbyOnShutdown bool `json:"delete_lobby_on_shutdown" yaml:"delete_lobby_on_shutdown"`
}

// DefaultConnectionConfig 返回默认连接配置
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxConnectedPlayers:   8,
		DebugBuild:            false,
		StartingHostApproval:  StartingHostDeny,
		SetupTimeout:          Duration(30 * time.Second),
		ApprovalRateLimit:     0,
		ApprovalBurst:         8,
		DeleteLobbyOnShutdown: true,
	}
}

// Validate 验证连接配置
func (c ConnectionConfig) Validate() error {
	if c.MaxConnectedPlayers <= 0 {
		return fmt.Errorf("%w: max_connected_players must be positive", ErrInvalidConfig)
	}
	switch c.StartingHostApproval {
	case StartingHostDeny, StartingHostValidate:
	default:
		return fmt.Errorf("%w: starting_host_approval must be %q or %q, got %q",
			ErrInvalidConfig, StartingHostDeny, StartingHostValidate, c.StartingHostApproval)
	}
	if c.SetupTimeout < 0 {
		return fmt.Errorf("%w: setup_timeout must be non-negative", ErrInvalidConfig)
	}
	if c.ApprovalRateLimit < 0 {
		return fmt.Errorf("%w: approval_rate_limit must be non-negative", ErrInvalidConfig)
	}
	if c.ApprovalRateLimit > 0 && c.ApprovalBurst <= 0 {
		return fmt.Errorf("%w: approval_burst must be positive when rate limit is set", ErrInvalidConfig)
	}
	return nil
}
