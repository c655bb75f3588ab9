package method

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-netsession/config"
	"github.com/dep2p/go-netsession/pkg/types"
	"github.com/dep2p/go-netsession/tests/mocks"
)

type fixture struct {
	tr    *mocks.MockTransport
	auth  *mocks.MockAuth
	relay *mocks.MockRelay
	lobby *mocks.MockLobby
	deps  Deps
}

func newFixture() *fixture {
	f := &fixture{
		tr:    mocks.NewMockTransport(0),
		auth:  &mocks.MockAuth{ID: "player-1"},
		relay: mocks.NewMockRelay(),
		lobby: mocks.NewMockLobby("lobby-1"),
	}
	f.deps = Deps{
		Transport:           f.tr,
		Auth:                f.auth,
		Relay:               f.relay,
		Lobby:               f.lobby,
		MaxConnectedPlayers: 4,
		Region:              "eu",
	}
	return f
}

func decodePayload(t *testing.T, data []byte) types.ConnectionPayload {
	t.Helper()
	p, err := types.DecodeConnectionPayload(data)
	require.NoError(t, err)
	return p
}

// ============================================================================
//                              Direct
// ============================================================================

func TestDirect_Setup(t *testing.T) {
	for _, host := range []bool{true, false} {
		f := newFixture()
		f.deps.DebugBuild = true
		d := NewDirect(f.deps, "alice", "10.0.0.1", 7777)

		var err error
		if host {
			err = d.SetupHostConnection(context.Background())
		} else {
			err = d.SetupClientConnection(context.Background())
		}
		require.NoError(t, err)

		assert.Equal(t, "direct", d.Name())
		assert.Equal(t, []mocks.Endpoint{{Address: "10.0.0.1", Port: 7777}}, f.tr.Endpoints)
		p := decodePayload(t, f.tr.Payload)
		assert.Equal(t, types.ConnectionPayload{PlayerID: "player-1", PlayerName: "alice", IsDebug: true}, p)
	}
}

func TestDirect_EmptyPlayerID(t *testing.T) {
	f := newFixture()
	f.auth.ID = ""
	d := NewDirect(f.deps, "alice", "10.0.0.1", 7777)

	err := d.SetupHostConnection(context.Background())
	assert.ErrorIs(t, err, ErrHostConnectionFailed)
	assert.ErrorIs(t, err, types.ErrEmptyPlayerID)
	assert.Empty(t, f.tr.Endpoints)

	err = d.SetupClientConnection(context.Background())
	assert.ErrorIs(t, err, ErrClientConnectionFailed)
}

// ============================================================================
//                              Relay 主机
// ============================================================================

func TestRelay_SetupHost(t *testing.T) {
	f := newFixture()
	r := NewRelay(f.deps, "alice")

	var completed *types.Allocation
	r.OnHostCompleted = func(a *types.Allocation) { completed = a }

	require.NoError(t, r.SetupHostConnection(context.Background()))

	assert.Equal(t, []int{4}, f.relay.CreateCalls)
	assert.Equal(t, 1, f.relay.CodeCalls)
	assert.Equal(t, []string{"JOIN42"}, f.lobby.UpdateLobbyRelayCodeCalls)
	assert.Equal(t, []mocks.PlayerRelayInfoCall{{AllocationID: "alloc-host", RelayCode: "JOIN42"}}, f.lobby.UpdatePlayerRelayInfoCalls)

	require.Len(t, f.tr.RelayData, 1)
	data := f.tr.RelayData[0]
	assert.True(t, data.IsHost)
	assert.Equal(t, types.ConnectionTypeDTLS, data.ConnectionType)
	assert.Equal(t, "alloc-host", data.AllocationID)

	require.NotNil(t, completed)
	assert.Equal(t, "eu", completed.Region)
	assert.Equal(t, "player-1", decodePayload(t, f.tr.Payload).PlayerID)
}

func TestRelay_SetupHostFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name     string
		sabotage func(f *fixture)
	}{
		{"create allocation", func(f *fixture) {
			f.relay.CreateAllocationFunc = func(context.Context, int, string) (*types.Allocation, error) { return nil, boom }
		}},
		{"join code", func(f *fixture) {
			f.relay.GetJoinCodeFunc = func(context.Context, *types.Allocation) (string, error) { return "", boom }
		}},
		{"publish code", func(f *fixture) {
			f.lobby.UpdateLobbyRelayCodeFunc = func(context.Context, string) (*types.Lobby, error) { return nil, boom }
		}},
		{"publish player", func(f *fixture) {
			f.lobby.UpdatePlayerRelayInfoFunc = func(context.Context, string, string) (*types.Lobby, error) { return nil, boom }
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.sabotage(f)
			r := NewRelay(f.deps, "alice")

			var failed error
			r.OnHostFailed = func(err error) { failed = err }
			r.OnHostCompleted = func(*types.Allocation) { t.Fatal("completed after failure") }

			err := r.SetupHostConnection(context.Background())
			assert.ErrorIs(t, err, ErrHostConnectionFailed)
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, err, failed)
			assert.Empty(t, f.tr.RelayData)
		})
	}
}

// ============================================================================
//                              Relay 客户端
// ============================================================================

func TestRelay_SetupClient(t *testing.T) {
	f := newFixture()
	f.lobby.Code = "JOIN42"
	r := NewRelay(f.deps, "bob")

	var joined *types.JoinAllocation
	r.OnClientCompleted = func(j *types.JoinAllocation) { joined = j }

	require.NoError(t, r.SetupClientConnection(context.Background()))

	assert.Equal(t, []string{"JOIN42"}, f.relay.JoinCalls)
	assert.Equal(t, []mocks.PlayerRelayInfoCall{{AllocationID: "alloc-client", RelayCode: "JOIN42"}}, f.lobby.UpdatePlayerRelayInfoCalls)
	require.Len(t, f.tr.RelayData, 1)
	assert.False(t, f.tr.RelayData[0].IsHost)
	assert.Equal(t, "alloc-host", f.tr.RelayData[0].HostAllocationID)
	require.NotNil(t, joined)
	assert.Equal(t, "bob", decodePayload(t, f.tr.Payload).PlayerName)
}

func TestRelay_SetupClientFailures(t *testing.T) {
	t.Run("no lobby", func(t *testing.T) {
		f := newFixture()
		f.lobby.Lobby = nil
		err := NewRelay(f.deps, "bob").SetupClientConnection(context.Background())
		assert.ErrorIs(t, err, ErrClientConnectionFailed)
		assert.ErrorIs(t, err, ErrNoLobby)
		assert.Empty(t, f.relay.JoinCalls)
	})

	t.Run("no relay code", func(t *testing.T) {
		f := newFixture()
		err := NewRelay(f.deps, "bob").SetupClientConnection(context.Background())
		assert.ErrorIs(t, err, ErrNoRelayCode)
	})

	t.Run("join fails", func(t *testing.T) {
		f := newFixture()
		f.lobby.Code = "BAD"
		f.relay.JoinAllocationFunc = func(context.Context, string) (*types.JoinAllocation, error) {
			return nil, errors.New("unknown code")
		}
		r := NewRelay(f.deps, "bob")
		var failed bool
		r.OnClientFailed = func(error) { failed = true }

		err := r.SetupClientConnection(context.Background())
		assert.ErrorIs(t, err, ErrClientConnectionFailed)
		assert.True(t, failed)
		assert.Empty(t, f.tr.RelayData)
	})

	t.Run("missing services", func(t *testing.T) {
		f := newFixture()
		f.deps.Relay = nil
		err := NewRelay(f.deps, "bob").SetupClientConnection(context.Background())
		assert.ErrorIs(t, err, ErrMissingDependency)
	})
}

// ============================================================================
//                              资源归还
// ============================================================================

func TestRelay_TeardownHost(t *testing.T) {
	f := newFixture()
	r := NewRelay(f.deps, "alice")
	require.NoError(t, r.SetupHostConnection(context.Background()))

	r.Teardown()
	require.Len(t, f.relay.ReleaseCalls, 1)
	assert.Equal(t, "alloc-host", f.relay.ReleaseCalls[0].AllocationID)
	assert.Empty(t, f.relay.LeaveCalls)

	r.Teardown()
	assert.Len(t, f.relay.ReleaseCalls, 1, "released once")
}

func TestRelay_TeardownClient(t *testing.T) {
	f := newFixture()
	f.lobby.Code = "JOIN42"
	r := NewRelay(f.deps, "bob")
	require.NoError(t, r.SetupClientConnection(context.Background()))

	r.Teardown()
	require.Len(t, f.relay.LeaveCalls, 1)
	assert.Equal(t, "alloc-client", f.relay.LeaveCalls[0].AllocationID)
	assert.Empty(t, f.relay.ReleaseCalls)
}

func TestRelay_TeardownAfterPartialSetup(t *testing.T) {
	f := newFixture()
	f.lobby.Code = "JOIN42"
	f.lobby.UpdatePlayerRelayInfoFunc = func(context.Context, string, string) (*types.Lobby, error) {
		return nil, errors.New("boom")
	}
	r := NewRelay(f.deps, "bob")
	require.Error(t, r.SetupClientConnection(context.Background()))

	// 加入成功后的步骤失败，名额仍由 Teardown 归还
	r.Teardown()
	assert.Len(t, f.relay.LeaveCalls, 1)
}

func TestRelay_SetupAfterTeardown(t *testing.T) {
	f := newFixture()
	r := NewRelay(f.deps, "alice")
	r.Teardown()

	err := r.SetupHostConnection(context.Background())
	assert.ErrorIs(t, err, ErrTornDown)
	assert.Len(t, f.relay.ReleaseCalls, 1, "late allocation released immediately")
	assert.Empty(t, f.tr.RelayData)

	f.lobby.Code = "JOIN42"
	err = r.SetupClientConnection(context.Background())
	assert.ErrorIs(t, err, ErrTornDown)
	assert.Len(t, f.relay.LeaveCalls, 1, "late join returned immediately")
}

func TestDirect_Teardown(t *testing.T) {
	f := newFixture()
	d := NewDirect(f.deps, "alice", "10.0.0.1", 7777)
	require.NoError(t, d.SetupHostConnection(context.Background()))
	d.Teardown()
	assert.Empty(t, f.relay.ReleaseCalls)
}

// ============================================================================
//                              工厂
// ============================================================================

func TestNewFactory(t *testing.T) {
	f := newFixture()

	factory, err := NewFactory(config.MethodConfig{Kind: config.MethodRelay}, f.deps)
	require.NoError(t, err)
	assert.Equal(t, "relay", factory("alice").Name())

	factory, err = NewFactory(config.MethodConfig{Kind: config.MethodDirect, Address: "h", Port: 1}, f.deps)
	require.NoError(t, err)
	m := factory("alice")
	assert.Equal(t, "direct", m.Name())
	assert.Equal(t, "alice", m.(*Direct).PlayerName())

	_, err = NewFactory(config.MethodConfig{Kind: "smoke"}, f.deps)
	assert.ErrorIs(t, err, ErrUnknownKind)

	noRelay := f.deps
	noRelay.Lobby = nil
	_, err = NewFactory(config.MethodConfig{Kind: config.MethodRelay}, noRelay)
	assert.ErrorIs(t, err, ErrMissingDependency)

	_, err = NewFactory(config.MethodConfig{Kind: config.MethodDirect}, Deps{})
	assert.ErrorIs(t, err, ErrMissingDependency)
}
