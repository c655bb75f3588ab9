package config

import "fmt"

// 连接方式
const (
	// MethodRelay 通过大厅交换加入码，经中继连接
	MethodRelay = "relay"
	// MethodDirect 直连地址/端口
	MethodDirect = "direct"
)

// MethodConfig 连接方式配置
type MethodConfig struct {
	// Kind 连接方式: relay（默认）/ direct
	Kind string `json:"kind" yaml:"kind"`

	// Address 直连地址（direct 模式）
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// Port 直连端口（direct 模式）
	Port uint16 `json:"port,omitempty" yaml:"port,omitempty"`

	// Region 中继区域（relay 模式，可选）
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// DefaultMethodConfig 返回默认连接方式配置
func DefaultMethodConfig() MethodConfig {
	return MethodConfig{
		Kind:    MethodRelay,
		Address: "127.0.0.1",
		Port:    7777,
	}
}

// Validate 验证连接方式配置
func (c MethodConfig) Validate() error {
	switch c.Kind {
	case MethodRelay:
		return nil
	case MethodDirect:
		if c.Address == "" {
			return fmt.Errorf("%w: direct method requires an address", ErrInvalidConfig)
		}
		if c.Port == 0 {
			return fmt.Errorf("%w: direct method requires a port", ErrInvalidConfig)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown method kind %q", ErrInvalidConfig, c.Kind)
	}
}
