package relay

import "fmt"

// Config Broker 配置
type Config struct {
	// Regions 可用区域，第一个为默认区域
	Regions []string

	// Endpoint 中继服务端点
	Endpoint string

	// MaxAllocations 最多保留的分配数（LRU 淘汰）
	MaxAllocations int

	// AllocationRate 每秒允许的分配请求数（0 = 不限制）
	AllocationRate float64

	// AllocationBurst 分配请求突发容量
	AllocationBurst int

	// JoinCodeLength 加入码长度
	JoinCodeLength int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Regions:         []string{"local"},
		Endpoint:        "relay.local:7770",
		MaxAllocations:  256,
		AllocationRate:  0,
		AllocationBurst: 16,
		JoinCodeLength:  6,
	}
}

// Validate 验证配置
func (c Config) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("%w: no regions", ErrInvalidConfig)
	}
	if c.MaxAllocations <= 0 {
		return fmt.Errorf("%w: max allocations must be positive", ErrInvalidConfig)
	}
	if c.AllocationRate < 0 {
		return fmt.Errorf("%w: negative allocation rate", ErrInvalidConfig)
	}
	if c.AllocationRate > 0 && c.AllocationBurst <= 0 {
		return fmt.Errorf("%w: allocation burst must be positive", ErrInvalidConfig)
	}
	if c.JoinCodeLength < 4 || c.JoinCodeLength > 32 {
		return fmt.Errorf("%w: join code length out of range", ErrInvalidConfig)
	}
	return nil
}
