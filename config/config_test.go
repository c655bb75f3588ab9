package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 8, cfg.Connection.MaxConnectedPlayers)
	assert.Equal(t, StartingHostDeny, cfg.Connection.StartingHostApproval)
	assert.Equal(t, 30*time.Second, cfg.Connection.SetupTimeout.Duration())
	assert.True(t, cfg.Connection.DeleteLobbyOnShutdown)
	assert.Equal(t, MethodRelay, cfg.Method.Kind)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "player", cfg.Identity.PlayerName)

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		var cfg *Config
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("zero capacity", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Connection.MaxConnectedPlayers = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("unknown starting host policy", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Connection.StartingHostApproval = "allow"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rate limit without burst", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Connection.ApprovalRateLimit = 5
		cfg.Connection.ApprovalBurst = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("direct without port", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Method.Kind = MethodDirect
		cfg.Method.Port = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("unknown method", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Method.Kind = "carrier-pigeon"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("empty player name", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Identity.PlayerName = "  "
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("player id with key file", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Identity.PlayerID = "p1"
		cfg.Identity.KeyFile = "player.pem"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Log.Level = "verbose"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

func TestDuration_JSON(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"15s"`), &d))
	assert.Equal(t, 15*time.Second, d.Duration())

	require.NoError(t, json.Unmarshal([]byte(`1000000`), &d))
	assert.Equal(t, time.Millisecond, d.Duration())

	assert.Error(t, json.Unmarshal([]byte(`"soon"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`true`), &d))

	out, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(out))
}

func TestDuration_YAML(t *testing.T) {
	var v struct {
		Timeout Duration `yaml:"timeout"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("timeout: 45s\n"), &v))
	assert.Equal(t, 45*time.Second, v.Timeout.Duration())

	require.NoError(t, yaml.Unmarshal([]byte("timeout: 2000000000\n"), &v))
	assert.Equal(t, 2*time.Second, v.Timeout.Duration())

	assert.Error(t, yaml.Unmarshal([]byte("timeout: [1, 2]\n"), &v))
}

func TestLoadJSON(t *testing.T) {
	cfg, err := LoadJSON([]byte(`{
		"connection": {"max_connected_players": 4, "setup_timeout": "5s"},
		"method": {"kind": "direct", "address": "10.0.0.2", "port": 9000}
	}`))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Connection.MaxConnectedPlayers)
	assert.Equal(t, 5*time.Second, cfg.Connection.SetupTimeout.Duration())
	assert.Equal(t, MethodDirect, cfg.Method.Kind)
	assert.Equal(t, uint16(9000), cfg.Method.Port)
	// 未出现的字段保留默认值
	assert.Equal(t, StartingHostDeny, cfg.Connection.StartingHostApproval)

	_, err = LoadJSON([]byte(`{"bogus": 1}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadYAML(t *testing.T) {
	cfg, err := LoadYAML([]byte(`
connection:
  max_connected_players: 2
  debug_build: true
  starting_host_approval: validate
method:
  kind: relay
  region: eu-west
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Connection.MaxConnectedPlayers)
	assert.True(t, cfg.Connection.DebugBuild)
	assert.Equal(t, StartingHostValidate, cfg.Connection.StartingHostApproval)
	assert.Equal(t, "eu-west", cfg.Method.Region)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "session.yml")
		require.NoError(t, os.WriteFile(path, []byte("connection:\n  max_connected_players: 3\n"), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Connection.MaxConnectedPlayers)
	})

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "session.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"log": {"format": "json"}}`), 0o600))

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("invalid after load", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"connection": {"max_connected_players": -1}}`), 0o600))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(dir, "session.toml")
		require.NoError(t, os.WriteFile(path, []byte(""), 0o600))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"NETSESSION_MAX_PLAYERS":   "6",
		"NETSESSION_DEBUG_BUILD":   "true",
		"NETSESSION_SETUP_TIMEOUT": "10s",
		"NETSESSION_METHOD":        "DIRECT",
		"NETSESSION_PORT":          "8123",
		"NETSESSION_LOG_LEVEL":     "warn",
		"NETSESSION_PLAYER_NAME":   "alice",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := NewConfig()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, 6, cfg.Connection.MaxConnectedPlayers)
	assert.True(t, cfg.Connection.DebugBuild)
	assert.Equal(t, 10*time.Second, cfg.Connection.SetupTimeout.Duration())
	assert.Equal(t, MethodDirect, cfg.Method.Kind)
	assert.Equal(t, uint16(8123), cfg.Method.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "alice", cfg.Identity.PlayerName)

	t.Run("bad port", func(t *testing.T) {
		env := map[string]string{"NETSESSION_PORT": "70000"}
		err := NewConfig().ApplyEnv(func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
