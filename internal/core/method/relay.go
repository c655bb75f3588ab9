package method

import (
	"context"
	"fmt"
	"sync"

	"github.com/dep2p/go-netsession/config"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// Relay 经中继、通过大厅交换加入码的连接方式
type Relay struct {
	base

	// OnHostCompleted 主机准备成功后调用（可选）
	OnHostCompleted func(alloc *types.Allocation)
	// OnHostFailed 主机准备失败后调用（可选）
	OnHostFailed func(err error)
	// OnClientCompleted 客户端准备成功后调用（可选）
	OnClientCompleted func(join *types.JoinAllocation)
	// OnClientFailed 客户端准备失败后调用（可选）
	OnClientFailed func(err error)

	mu       sync.Mutex
	alloc    *types.Allocation
	join     *types.JoinAllocation
	tornDown bool
}

var _ pkgif.ConnectionMethod = (*Relay)(nil)

// NewRelay 创建中继方式
func NewRelay(deps Deps, playerName string) *Relay {
	return &Relay{base: base{deps: deps, playerName: playerName}}
}

// Name 返回 "relay"
func (r *Relay) Name() string {
	return config.MethodRelay
}

// SetupHostConnection 主机侧中继准备
//
// 创建分配 → 获取加入码 → 发布到大厅 → 发布本玩家中继信息 → 写入传输层。
func (r *Relay) SetupHostConnection(ctx context.Context) error {
	alloc, err := r.setupHost(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrHostConnectionFailed, err)
		logger.Warn("中继主机准备失败", "err", err)
		if r.OnHostFailed != nil {
			r.OnHostFailed(err)
		}
		return err
	}

	if r.OnHostCompleted != nil {
		r.OnHostCompleted(alloc)
	}
	return nil
}

func (r *Relay) setupHost(ctx context.Context) (*types.Allocation, error) {
	if r.deps.Relay == nil || r.deps.Lobby == nil {
		return nil, ErrMissingDependency
	}
	if err := r.writePayload(); err != nil {
		return nil, err
	}

	alloc, err := r.deps.Relay.CreateAllocation(ctx, r.deps.MaxConnectedPlayers, r.deps.Region)
	if err != nil {
		return nil, fmt.Errorf("create allocation: %w", err)
	}
	if err := r.holdAllocation(alloc); err != nil {
		return nil, err
	}

	code, err := r.deps.Relay.GetJoinCode(ctx, alloc)
	if err != nil {
		return nil, fmt.Errorf("get join code: %w", err)
	}

	logger.Info("已创建中继分配",
		"allocation", alloc.AllocationID,
		"region", alloc.Region,
		"code", code)

	if _, err := r.deps.Lobby.UpdateLobbyRelayCode(ctx, code); err != nil {
		return nil, fmt.Errorf("publish relay code: %w", err)
	}
	if _, err := r.deps.Lobby.UpdatePlayerRelayInfo(ctx, alloc.AllocationID, code); err != nil {
		return nil, fmt.Errorf("publish player relay info: %w", err)
	}

	r.deps.Transport.SetRelayServerData(types.HostRelayServerData(alloc, types.ConnectionTypeDTLS))
	return alloc, nil
}

// SetupClientConnection 客户端侧中继准备
//
// 读取大厅加入码 → 加入分配 → 发布本玩家中继信息 → 写入传输层。
func (r *Relay) SetupClientConnection(ctx context.Context) error {
	join, err := r.setupClient(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrClientConnectionFailed, err)
		logger.Warn("中继客户端准备失败", "err", err)
		if r.OnClientFailed != nil {
			r.OnClientFailed(err)
		}
		return err
	}

	if r.OnClientCompleted != nil {
		r.OnClientCompleted(join)
	}
	return nil
}

func (r *Relay) setupClient(ctx context.Context) (*types.JoinAllocation, error) {
	if r.deps.Relay == nil || r.deps.Lobby == nil {
		return nil, ErrMissingDependency
	}
	if err := r.writePayload(); err != nil {
		return nil, err
	}

	if r.deps.Lobby.CurrentLobby() == nil {
		return nil, ErrNoLobby
	}
	code := r.deps.Lobby.RelayCode()
	if code == "" {
		return nil, ErrNoRelayCode
	}

	logger.Debug("使用加入码加入中继", "code", code)
	join, err := r.deps.Relay.JoinAllocation(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("join allocation: %w", err)
	}
	if err := r.holdJoin(join); err != nil {
		return nil, err
	}

	if _, err := r.deps.Lobby.UpdatePlayerRelayInfo(ctx, join.AllocationID, code); err != nil {
		return nil, fmt.Errorf("publish player relay info: %w", err)
	}

	r.deps.Transport.SetRelayServerData(types.ClientRelayServerData(join, types.ConnectionTypeDTLS))
	logger.Info("已加入中继分配",
		"allocation", join.AllocationID,
		"host", join.HostAllocationID)
	return join, nil
}

// ============================================================================
//                              资源归还
// ============================================================================

// Teardown 归还持有的加入名额和主机分配
func (r *Relay) Teardown() {
	r.mu.Lock()
	alloc, join := r.alloc, r.join
	r.alloc, r.join = nil, nil
	r.tornDown = true
	r.mu.Unlock()

	if r.deps.Relay == nil {
		return
	}
	if join != nil {
		r.deps.Relay.LeaveAllocation(join)
		logger.Debug("已归还中继加入名额", "allocation", join.AllocationID)
	}
	if alloc != nil {
		r.deps.Relay.ReleaseAllocation(alloc)
		logger.Debug("已释放中继分配", "allocation", alloc.AllocationID)
	}
}

// holdAllocation 记录主机分配；已归还时立即释放
func (r *Relay) holdAllocation(alloc *types.Allocation) error {
	r.mu.Lock()
	if !r.tornDown {
		r.alloc = alloc
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()
	r.deps.Relay.ReleaseAllocation(alloc)
	return ErrTornDown
}

// holdJoin 记录加入分配；已归还时立即归还名额
func (r *Relay) holdJoin(join *types.JoinAllocation) error {
	r.mu.Lock()
	if !r.tornDown {
		r.join = join
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()
	r.deps.Relay.LeaveAllocation(join)
	return ErrTornDown
}
