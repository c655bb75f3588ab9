package relay

import "errors"

// Sentinel errors
var (
	// 配置错误
	ErrInvalidConfig   = errors.New("relay: invalid config")
	ErrInvalidCapacity = errors.New("relay: invalid capacity")
	ErrUnknownRegion   = errors.New("relay: unknown region")

	// 分配错误
	ErrNilAllocation      = errors.New("relay: allocation is nil")
	ErrAllocationNotFound = errors.New("relay: allocation not found")
	ErrJoinCodeNotFound   = errors.New("relay: join code not found")
	ErrJoinCodeCollision  = errors.New("relay: join code collision")

	// 资源限制错误
	ErrRateLimited           = errors.New("relay: rate limited")
	ErrResourceLimitExceeded = errors.New("relay: resource limit exceeded")
	ErrAllocationFull        = errors.New("relay: allocation full")
)
