package config

import (
	"fmt"
	"strings"
)

// IdentityConfig 玩家身份配置
//
// PlayerID 非空时直接作为玩家 ID；否则由 Ed25519 密钥派生。
// KeyFile 非空时密钥持久化到该路径，重启后玩家 ID 保持不变。
type IdentityConfig struct {
	// PlayerID 固定玩家 ID
	PlayerID string `json:"player_id,omitempty" yaml:"player_id,omitempty"`

	// KeyFile 私钥 PEM 文件路径
	KeyFile string `json:"key_file,omitempty" yaml:"key_file,omitempty"`

	// PlayerName 玩家显示名
	PlayerName string `json:"player_name" yaml:"player_name"`
}

// DefaultIdentityConfig 返回默认身份配置
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		PlayerName: "player",
	}
}

// Validate 验证身份配置
func (c IdentityConfig) Validate() error {
	if strings.TrimSpace(c.PlayerName) == "" {
		return fmt.Errorf("%w: player name is empty", ErrInvalidConfig)
	}
	if c.PlayerID != "" && c.KeyFile != "" {
		return fmt.Errorf("%w: player_id and key_file are mutually exclusive", ErrInvalidConfig)
	}
	return nil
}
