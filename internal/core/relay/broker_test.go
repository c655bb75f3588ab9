package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

func newTestBroker(t *testing.T, mutate func(*Config)) *Broker {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	b, err := NewBroker(cfg)
	require.NoError(t, err)
	return b
}

func TestBroker_HostClientFlow(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(t, nil)

	alloc, err := b.CreateAllocation(ctx, 4, "")
	require.NoError(t, err)
	assert.NotEmpty(t, alloc.AllocationID)
	assert.Equal(t, "local", alloc.Region)
	assert.Equal(t, 4, alloc.MaxConnections)
	assert.Len(t, alloc.Key, 32)

	code, err := b.GetJoinCode(ctx, alloc)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	again, err := b.GetJoinCode(ctx, alloc)
	require.NoError(t, err)
	assert.Equal(t, code, again, "join code is stable per allocation")

	join, err := b.JoinAllocation(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, alloc.AllocationID, join.HostAllocationID)
	assert.NotEqual(t, alloc.AllocationID, join.AllocationID)
	assert.Equal(t, alloc.Key, join.Key)
	assert.Equal(t, alloc.ConnectionData, join.HostConnectionData)
	assert.Equal(t, 1, b.Stats().TotalJoins)

	b.LeaveAllocation(join)
	assert.Equal(t, 0, b.Stats().TotalJoins)
}

func TestBroker_CreateAllocation_Errors(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(t, func(c *Config) { c.Regions = []string{"eu", "us"} })

	_, err := b.CreateAllocation(ctx, 0, "")
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = b.CreateAllocation(ctx, 2, "mars")
	assert.ErrorIs(t, err, ErrUnknownRegion)

	alloc, err := b.CreateAllocation(ctx, 2, "us")
	require.NoError(t, err)
	assert.Equal(t, "us", alloc.Region)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = b.CreateAllocation(cancelled, 2, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBroker_JoinErrors(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(t, nil)

	_, err := b.JoinAllocation(ctx, "nope")
	assert.ErrorIs(t, err, ErrJoinCodeNotFound)

	_, err = b.GetJoinCode(ctx, nil)
	assert.ErrorIs(t, err, ErrNilAllocation)

	alloc, err := b.CreateAllocation(ctx, 1, "")
	require.NoError(t, err)
	code, err := b.GetJoinCode(ctx, alloc)
	require.NoError(t, err)

	_, err = b.JoinAllocation(ctx, code)
	require.NoError(t, err)
	_, err = b.JoinAllocation(ctx, code)
	assert.ErrorIs(t, err, ErrAllocationFull)
}

func TestBroker_Release(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(t, nil)

	alloc, err := b.CreateAllocation(ctx, 2, "")
	require.NoError(t, err)
	code, err := b.GetJoinCode(ctx, alloc)
	require.NoError(t, err)

	assert.True(t, b.Release(alloc.AllocationID))
	assert.False(t, b.Release(alloc.AllocationID))

	_, err = b.JoinAllocation(ctx, code)
	assert.ErrorIs(t, err, ErrJoinCodeNotFound)

	_, err = b.GetJoinCode(ctx, alloc)
	assert.ErrorIs(t, err, ErrAllocationNotFound)
}

func TestBroker_LRUEviction(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(t, func(c *Config) { c.MaxAllocations = 2 })

	first, err := b.CreateAllocation(ctx, 2, "")
	require.NoError(t, err)
	code, err := b.GetJoinCode(ctx, first)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := b.CreateAllocation(ctx, 2, "")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, b.Allocations())

	_, err = b.JoinAllocation(ctx, code)
	assert.ErrorIs(t, err, ErrJoinCodeNotFound)
}

func TestBroker_RateLimit(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(t, func(c *Config) {
		c.AllocationRate = 0.001
		c.AllocationBurst = 1
	})

	_, err := b.CreateAllocation(ctx, 2, "")
	require.NoError(t, err)
	_, err = b.CreateAllocation(ctx, 2, "")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no regions", func(c *Config) { c.Regions = nil }},
		{"zero allocations", func(c *Config) { c.MaxAllocations = 0 }},
		{"negative rate", func(c *Config) { c.AllocationRate = -1 }},
		{"rate without burst", func(c *Config) { c.AllocationRate = 1; c.AllocationBurst = 0 }},
		{"short code", func(c *Config) { c.JoinCodeLength = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
			_, err := NewBroker(cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestModule(t *testing.T) {
	var svc pkgif.RelayService
	app := fxtest.New(t,
		Module(),
		fx.Populate(&svc),
	)
	app.RequireStart()
	defer app.RequireStop()

	alloc, err := svc.CreateAllocation(context.Background(), 2, "")
	require.NoError(t, err)
	assert.NotEmpty(t, alloc.AllocationID)
}

func TestBroker_ReleaseAllocation_ClearsJoins(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(t, nil)

	alloc, err := b.CreateAllocation(ctx, 2, "")
	require.NoError(t, err)
	code, err := b.GetJoinCode(ctx, alloc)
	require.NoError(t, err)
	join, err := b.JoinAllocation(ctx, code)
	require.NoError(t, err)
	require.Equal(t, 1, b.Stats().TotalJoins)

	b.ReleaseAllocation(alloc)
	assert.Equal(t, 0, b.Allocations())
	assert.Equal(t, 0, b.Stats().TotalJoins)

	// 主机已释放后客户端再归还不影响计数
	b.LeaveAllocation(join)
	assert.Equal(t, 0, b.Stats().TotalJoins)

	b.ReleaseAllocation(nil)
	b.LeaveAllocation(nil)
}

func TestBroker_JoinSlotReusedAfterLeave(t *testing.T) {
	ctx := context.Background()
	b := newTestBroker(t, nil)

	alloc, err := b.CreateAllocation(ctx, 1, "")
	require.NoError(t, err)
	code, err := b.GetJoinCode(ctx, alloc)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		join, err := b.JoinAllocation(ctx, code)
		require.NoError(t, err, "attempt %d", i)
		b.LeaveAllocation(join)
	}
	assert.Equal(t, 0, b.Stats().TotalJoins)
}
