package relay

import (
	"sync"

	"golang.org/x/time/rate"
)

// ════════════════════════════════════════════════════════════════════════════
// Limiter - 中继资源限制器
// ════════════════════════════════════════════════════════════════════════════

// Limiter 中继资源限制器
//
// 分配请求经令牌桶限速；加入请求按分配计数，不超过分配容量。
type Limiter struct {
	requests *rate.Limiter // nil = 不限速

	mu    sync.Mutex
	joins map[string]int // allocationID -> active joins
	total int
}

// NewLimiter 创建限制器
//
// perSecond 为 0 时不限速。
func NewLimiter(perSecond float64, burst int) *Limiter {
	l := &Limiter{joins: make(map[string]int)}
	if perSecond > 0 {
		l.requests = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return l
}

// AllowAllocation 检查是否允许新的分配请求
func (l *Limiter) AllowAllocation() error {
	if l.requests != nil && !l.requests.Allow() {
		return ErrRateLimited
	}
	return nil
}

// AllowJoin 检查分配是否还有加入容量，允许时计数加一
func (l *Limiter) AllowJoin(allocationID string, capacity int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if capacity > 0 && l.joins[allocationID] >= capacity {
		return ErrAllocationFull
	}
	l.joins[allocationID]++
	l.total++
	return nil
}

// ReleaseJoin 释放一个加入名额
func (l *Limiter) ReleaseJoin(allocationID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.joins[allocationID] > 0 {
		l.joins[allocationID]--
		l.total--
		if l.joins[allocationID] == 0 {
			delete(l.joins, allocationID)
		}
	}
}

// Forget 清除分配的全部计数
func (l *Limiter) Forget(allocationID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total -= l.joins[allocationID]
	delete(l.joins, allocationID)
}

// Stats 返回限制器统计信息
func (l *Limiter) Stats() LimiterStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return LimiterStats{
		TotalJoins:  l.total,
		Allocations: len(l.joins),
	}
}

// LimiterStats 限制器统计
type LimiterStats struct {
	TotalJoins  int
	Allocations int
}
