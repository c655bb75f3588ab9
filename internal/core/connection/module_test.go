package connection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-netsession/config"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
	"github.com/dep2p/go-netsession/tests/mocks"
)

func TestModule(t *testing.T) {
	tr := mocks.NewMockTransport(localID)
	reg := mocks.NewMockSessionRegistry()
	factory := &mocks.MockMethodFactory{}

	cfg := config.NewConfig()
	cfg.Connection.MaxConnectedPlayers = 3

	var (
		conn *Connection
		loop *Loop
		c    Config
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(
			func() pkgif.Transport { return tr },
			func() pkgif.SessionRegistry { return reg },
			func() pkgif.ConnectionMethodFactory { return factory.New },
		),
		Module(),
		fx.Populate(&conn, &loop, &c),
	)
	app.RequireStart()

	require.NotNil(t, conn)
	assert.Equal(t, 3, c.MaxConnectedPlayers)
	assert.Equal(t, types.StateOffline, conn.StateKind())

	require.NoError(t, loop.Do(context.Background(), func() {
		conn.StartHost("fx")
	}))

	app.RequireStop()
	assert.Equal(t, types.StateOffline, conn.StateKind())
	assert.Nil(t, tr.Handler)
}
