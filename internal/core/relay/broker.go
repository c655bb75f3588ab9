package relay

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

var logger = log.Logger("core/relay")

// connectionDataSize 连接数据长度
const connectionDataSize = 16

// Broker 进程内中继分配服务
type Broker struct {
	cfg     Config
	secret  [32]byte
	limiter *Limiter

	// allocationID -> 分配记录
	allocations *lru.Cache[string, types.Allocation]
	// 加入码 -> allocationID
	codes *lru.Cache[string, string]
}

var _ pkgif.RelayService = (*Broker)(nil)

// NewBroker 创建中继分配服务
func NewBroker(cfg Config) (*Broker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Broker{
		cfg:     cfg,
		limiter: NewLimiter(cfg.AllocationRate, cfg.AllocationBurst),
	}
	if _, err := rand.Read(b.secret[:]); err != nil {
		return nil, fmt.Errorf("relay: generate secret: %w", err)
	}

	codes, err := lru.New[string, string](cfg.MaxAllocations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	b.codes = codes

	allocations, err := lru.NewWithEvict[string, types.Allocation](cfg.MaxAllocations, b.onEvict)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	b.allocations = allocations
	return b, nil
}

// onEvict 分配被淘汰或释放时清理加入码和计数
func (b *Broker) onEvict(id string, _ types.Allocation) {
	b.codes.Remove(b.joinCode(id))
	b.limiter.Forget(id)
	logger.Debug("中继分配已移除", "allocation", id)
}

// ============================================================================
//                              RelayService
// ============================================================================

// CreateAllocation 创建容量为 maxConnections 的中继分配
func (b *Broker) CreateAllocation(ctx context.Context, maxConnections int, region string) (*types.Allocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if maxConnections <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, maxConnections)
	}
	region, err := b.resolveRegion(region)
	if err != nil {
		return nil, err
	}
	if err := b.limiter.AllowAllocation(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	alloc := types.Allocation{
		AllocationID:   id,
		Region:         region,
		Endpoint:       b.cfg.Endpoint,
		ConnectionData: connectionData(id),
		Key:            b.deriveKey(id),
		MaxConnections: maxConnections,
	}
	b.allocations.Add(id, alloc)

	logger.Debug("已创建中继分配", "allocation", id, "region", region, "capacity", maxConnections)
	return cloneAllocation(alloc), nil
}

// GetJoinCode 获取主机分配的加入码
//
// 同一分配多次调用返回相同的加入码。
func (b *Broker) GetJoinCode(ctx context.Context, allocation *types.Allocation) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if allocation == nil {
		return "", ErrNilAllocation
	}
	id := allocation.AllocationID
	if !b.allocations.Contains(id) {
		return "", fmt.Errorf("%w: %s", ErrAllocationNotFound, id)
	}

	code := b.joinCode(id)
	if owner, ok := b.codes.Peek(code); ok && owner != id {
		return "", ErrJoinCodeCollision
	}
	b.codes.Add(code, id)
	return code, nil
}

// JoinAllocation 使用加入码加入主机分配
func (b *Broker) JoinAllocation(ctx context.Context, joinCode string) (*types.JoinAllocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hostID, ok := b.codes.Get(joinCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrJoinCodeNotFound, joinCode)
	}
	host, ok := b.allocations.Get(hostID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAllocationNotFound, hostID)
	}
	if err := b.limiter.AllowJoin(hostID, host.MaxConnections); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	join := &types.JoinAllocation{
		AllocationID:       id,
		HostAllocationID:   hostID,
		Region:             host.Region,
		Endpoint:           host.Endpoint,
		ConnectionData:     connectionData(id),
		HostConnectionData: append([]byte(nil), host.ConnectionData...),
		Key:                append([]byte(nil), host.Key...),
	}
	logger.Debug("已加入中继分配", "allocation", id, "host", hostID)
	return join, nil
}

// ============================================================================
//                              生命周期
// ============================================================================

// LeaveAllocation 归还客户端占用的加入名额
//
// 主机分配已释放时计数已被清除，不做处理。
func (b *Broker) LeaveAllocation(join *types.JoinAllocation) {
	if join == nil {
		return
	}
	b.limiter.ReleaseJoin(join.HostAllocationID)
	logger.Debug("已归还加入名额", "allocation", join.AllocationID, "host", join.HostAllocationID)
}

// ReleaseAllocation 释放主机分配，其加入码随之失效
func (b *Broker) ReleaseAllocation(allocation *types.Allocation) {
	if allocation == nil {
		return
	}
	b.Release(allocation.AllocationID)
}

// Release 按 ID 释放主机分配，返回分配是否存在
func (b *Broker) Release(allocationID string) bool {
	return b.allocations.Remove(allocationID)
}

// Allocations 返回当前保留的分配数
func (b *Broker) Allocations() int {
	return b.allocations.Len()
}

// Stats 返回加入计数统计
func (b *Broker) Stats() LimiterStats {
	return b.limiter.Stats()
}

// ============================================================================
//                              内部方法
// ============================================================================

func (b *Broker) resolveRegion(region string) (string, error) {
	if region == "" {
		return b.cfg.Regions[0], nil
	}
	for _, r := range b.cfg.Regions {
		if r == region {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, region)
}

// deriveKey 会话密钥 = SHA256(secret || allocationID)
func (b *Broker) deriveKey(allocationID string) []byte {
	h := sha256.New()
	h.Write(b.secret[:])
	h.Write([]byte(allocationID))
	return h.Sum(nil)
}

// joinCode 加入码 = Base58(SHA256(key)) 前缀
func (b *Broker) joinCode(allocationID string) string {
	sum := sha256.Sum256(b.deriveKey(allocationID))
	code := base58.Encode(sum[:])
	return code[:b.cfg.JoinCodeLength]
}

func connectionData(id string) []byte {
	sum := sha256.Sum256([]byte(id))
	return sum[:connectionDataSize]
}

func cloneAllocation(a types.Allocation) *types.Allocation {
	a.ConnectionData = append([]byte(nil), a.ConnectionData...)
	a.Key = append([]byte(nil), a.Key...)
	return &a
}
