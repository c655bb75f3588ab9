// Package config 提供 netsession 的统一配置管理
//
// 主 Config 结构体嵌入各子配置，每个子配置在独立文件中定义：
//   - connection.go - 连接状态机（容量、构建类型、准入策略、准备超时）
//   - method.go     - 连接方式（relay / direct）
//   - identity.go   - 玩家身份
//   - log.go        - 日志
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Connection.MaxConnectedPlayers = 4
//
//	// 从文件加载（.json / .yaml / .yml）
//	cfg, err := config.LoadFile("session.yaml")
package config

import "fmt"

// Config 是 netsession 的完整配置结构
type Config struct {
	// Connection 连接状态机配置
	Connection ConnectionConfig `json:"connection" yaml:"connection"`

	// Method 连接方式配置
	Method MethodConfig `json:"method" yaml:"method"`

	// Identity 玩家身份配置
	Identity IdentityConfig `json:"identity" yaml:"identity"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Connection: DefaultConnectionConfig(),
		Method:     DefaultMethodConfig(),
		Identity:   DefaultIdentityConfig(),
		Log:        DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置，返回第一个发现的错误。
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := c.Connection.Validate(); err != nil {
		return err
	}
	if err := c.Method.Validate(); err != nil {
		return err
	}
	if err := c.Identity.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Clone 深拷贝配置
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
