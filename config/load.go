package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "NETSESSION_"

// LoadJSON 在默认配置基础上解析 JSON
//
// 未出现的字段保留默认值。
func LoadJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadYAML 在默认配置基础上解析 YAML
func LoadYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadFile 按扩展名加载配置文件，叠加环境变量后校验
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		cfg, err = LoadJSON(data)
	case ".yaml", ".yml":
		cfg, err = LoadYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv 用环境变量覆盖配置
//
// lookup 通常为 os.LookupEnv，测试中可替换。支持的变量：
//
//	NETSESSION_MAX_PLAYERS          连接容量
//	NETSESSION_DEBUG_BUILD          调试构建标志
//	NETSESSION_STARTING_HOST_APPROVAL
//	NETSESSION_SETUP_TIMEOUT        如 "15s"
//	NETSESSION_METHOD               relay / direct
//	NETSESSION_ADDRESS
//	NETSESSION_PORT
//	NETSESSION_REGION
//	NETSESSION_PLAYER_ID
//	NETSESSION_PLAYER_NAME
//	NETSESSION_KEY_FILE
//	NETSESSION_LOG_LEVEL
//	NETSESSION_LOG_FORMAT
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := get("MAX_PLAYERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sMAX_PLAYERS: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Connection.MaxConnectedPlayers = n
	}
	if v, ok := get("DEBUG_BUILD"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sDEBUG_BUILD: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Connection.DebugBuild = b
	}
	if v, ok := get("STARTING_HOST_APPROVAL"); ok {
		c.Connection.StartingHostApproval = strings.ToLower(v)
	}
	if v, ok := get("SETUP_TIMEOUT"); ok {
		var d Duration
		if err := d.parse(v); err != nil {
			return fmt.Errorf("%w: %sSETUP_TIMEOUT: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Connection.SetupTimeout = d
	}
	if v, ok := get("METHOD"); ok {
		c.Method.Kind = strings.ToLower(v)
	}
	if v, ok := get("ADDRESS"); ok {
		c.Method.Address = v
	}
	if v, ok := get("PORT"); ok {
		p, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("%w: %sPORT: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Method.Port = uint16(p)
	}
	if v, ok := get("REGION"); ok {
		c.Method.Region = v
	}
	if v, ok := get("PLAYER_ID"); ok {
		c.Identity.PlayerID = v
	}
	if v, ok := get("PLAYER_NAME"); ok {
		c.Identity.PlayerName = v
	}
	if v, ok := get("KEY_FILE"); ok {
		c.Identity.KeyFile = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	return nil
}
