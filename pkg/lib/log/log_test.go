package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLazyLogger_SwitchOutput 测试已创建的 logger 跟随输出切换
func TestLazyLogger_SwitchOutput(t *testing.T) {
	prev := slog.Default()
	defer SetDefault(prev)

	l := Logger("test")

	buf := &bytes.Buffer{}
	SetOutputWithLevel(buf, LevelDebug)

	l.Info("after switch", "key", "value")

	out := buf.String()
	assert.Contains(t, out, "after switch")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "component=test")
}

// TestSetup_JSON 测试 JSON 格式输出
func TestSetup_JSON(t *testing.T) {
	prev := slog.Default()
	defer SetDefault(prev)

	buf := &bytes.Buffer{}
	Setup(buf, LevelInfo, "json")

	Logger("json").Info("hello")
	assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
	assert.Contains(t, buf.String(), `"component":"json"`)
}

// TestSetupFromEnv 测试环境变量覆盖级别
func TestSetupFromEnv(t *testing.T) {
	prev := slog.Default()
	defer SetDefault(prev)

	t.Setenv(EnvLogLevel, "warn")

	buf := &bytes.Buffer{}
	SetupFromEnv(buf, LevelDebug, "text")

	l := Logger("env")
	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

// TestParseLevel 测试级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

// TestTruncateID 测试 ID 截断
func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc", TruncateID("abc", 8))
	assert.Equal(t, "abcdefgh", TruncateID("abcdefghij", 8))
}
