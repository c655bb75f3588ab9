package connection

import (
	"time"

	"github.com/dep2p/go-netsession/config"
)

// Config 连接状态机配置
type Config struct {
	// MaxConnectedPlayers 最大在线玩家数（含主机本身）
	MaxConnectedPlayers int

	// DebugBuild 本端是否为调试构建
	DebugBuild bool

	// ValidateWhileStarting 主机启动阶段是否按完整规则校验非本端准入请求
	// 为 false 时直接拒绝
	ValidateWhileStarting bool

	// SetupTimeout 连接准备超时，0 表示不设超时
	SetupTimeout time.Duration

	// ApprovalRateLimit 每秒允许的准入检查次数，0 表示不限制
	//
	// 启用后准入结果不再只取决于请求内容：相同请求在令牌耗尽时被拒绝。
	ApprovalRateLimit float64

	// ApprovalBurst 准入检查突发容量
	ApprovalBurst int

	// DeleteLobbyOnShutdown 主机主动关闭时删除大厅
	DeleteLobbyOnShutdown bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return ConfigFromUnified(nil)
}

// ConfigFromUnified 从统一配置创建连接配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	c := cfg.Connection
	return Config{
		MaxConnectedPlayers:   c.MaxConnectedPlayers,
		DebugBuild:            c.DebugBuild,
		ValidateWhileStarting: c.StartingHostApproval == config.StartingHostValidate,
		SetupTimeout:          c.SetupTimeout.Duration(),
		ApprovalRateLimit:     c.ApprovalRateLimit,
		ApprovalBurst:         c.ApprovalBurst,
		DeleteLobbyOnShutdown: c.DeleteLobbyOnShutdown,
	}
}
