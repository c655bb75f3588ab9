package mocks

import (
	"context"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// MockRelay 模拟中继服务
//
// 默认返回固定的分配和加入码 "JOIN42"。
type MockRelay struct {
	// 可覆盖的方法
	CreateAllocationFunc func(ctx context.Context, maxConnections int, region string) (*types.Allocation, error)
	JoinAllocationFunc   func(ctx context.Context, joinCode string) (*types.JoinAllocation, error)
	GetJoinCodeFunc      func(ctx context.Context, allocation *types.Allocation) (string, error)

	// 调用记录
	CreateCalls  []int
	JoinCalls    []string
	CodeCalls    int
	LeaveCalls   []*types.JoinAllocation
	ReleaseCalls []*types.Allocation
}

var _ pkgif.RelayService = (*MockRelay)(nil)

// NewMockRelay 创建 MockRelay
func NewMockRelay() *MockRelay {
	return &MockRelay{}
}

// CreateAllocation 记录调用
func (m *MockRelay) CreateAllocation(ctx context.Context, maxConnections int, region string) (*types.Allocation, error) {
	m.CreateCalls = append(m.CreateCalls, maxConnections)
	if m.CreateAllocationFunc != nil {
		return m.CreateAllocationFunc(ctx, maxConnections, region)
	}
	return &types.Allocation{
		AllocationID:   "alloc-host",
		Region:         region,
		Endpoint:       "relay.test:3478",
		ConnectionData: []byte{1},
		Key:            []byte{2},
		MaxConnections: maxConnections,
	}, nil
}

// JoinAllocation 记录调用
func (m *MockRelay) JoinAllocation(ctx context.Context, joinCode string) (*types.JoinAllocation, error) {
	m.JoinCalls = append(m.JoinCalls, joinCode)
	if m.JoinAllocationFunc != nil {
		return m.JoinAllocationFunc(ctx, joinCode)
	}
	return &types.JoinAllocation{
		AllocationID:       "alloc-client",
		HostAllocationID:   "alloc-host",
		Endpoint:           "relay.test:3478",
		ConnectionData:     []byte{3},
		HostConnectionData: []byte{1},
		Key:                []byte{4},
	}, nil
}

// GetJoinCode 记录调用
func (m *MockRelay) GetJoinCode(ctx context.Context, allocation *types.Allocation) (string, error) {
	m.CodeCalls++
	if m.GetJoinCodeFunc != nil {
		return m.GetJoinCodeFunc(ctx, allocation)
	}
	return "JOIN42", nil
}

// LeaveAllocation 记录调用
func (m *MockRelay) LeaveAllocation(join *types.JoinAllocation) {
	m.LeaveCalls = append(m.LeaveCalls, join)
}

// ReleaseAllocation 记录调用
func (m *MockRelay) ReleaseAllocation(allocation *types.Allocation) {
	m.ReleaseCalls = append(m.ReleaseCalls, allocation)
}
