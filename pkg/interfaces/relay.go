package interfaces

import (
	"context"

	"github.com/dep2p/go-netsession/pkg/types"
)

// RelayService 定义中继分配服务接口
type RelayService interface {
	// CreateAllocation 创建容量为 maxConnections 的中继分配
	//
	// region 为空表示由服务选择区域。
	CreateAllocation(ctx context.Context, maxConnections int, region string) (*types.Allocation, error)

	// JoinAllocation 使用加入码加入主机分配
	JoinAllocation(ctx context.Context, joinCode string) (*types.JoinAllocation, error)

	// GetJoinCode 获取主机分配的加入码
	GetJoinCode(ctx context.Context, allocation *types.Allocation) (string, error)

	// LeaveAllocation 归还客户端加入占用的名额
	LeaveAllocation(join *types.JoinAllocation)

	// ReleaseAllocation 释放主机分配，其加入码随之失效
	ReleaseAllocation(allocation *types.Allocation)
}
