package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionStatus_RoundTrip 测试所有状态的 JSON 往返
func TestConnectionStatus_RoundTrip(t *testing.T) {
	for _, s := range AllStatuses() {
		t.Run(s.String(), func(t *testing.T) {
			data, err := json.Marshal(s)
			require.NoError(t, err)

			var got ConnectionStatus
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, s, got)
		})
	}
}

// TestConnectionStatus_WireFormat 测试线格式为带引号的枚举名
func TestConnectionStatus_WireFormat(t *testing.T) {
	data, err := json.Marshal(StatusHostEndedSession)
	require.NoError(t, err)
	assert.Equal(t, `"HOST_ENDED_SESSION"`, string(data))

	assert.Equal(t, `"SERVER_FULL"`, EncodeReason(StatusServerFull))
}

// TestConnectionStatus_UnmarshalOrdinal 测试兼容序号格式
func TestConnectionStatus_UnmarshalOrdinal(t *testing.T) {
	var s ConnectionStatus
	require.NoError(t, json.Unmarshal([]byte("2"), &s))
	assert.Equal(t, StatusServerFull, s)

	assert.Error(t, json.Unmarshal([]byte("42"), &s))
	assert.Error(t, json.Unmarshal([]byte(`"NOT_A_STATUS"`), &s))
}

// TestConnectionStatus_InvalidMarshal 测试未定义值无法编码
func TestConnectionStatus_InvalidMarshal(t *testing.T) {
	_, err := json.Marshal(ConnectionStatus(99))
	assert.Error(t, err)
	assert.Equal(t, "", EncodeReason(ConnectionStatus(99)))
	assert.Equal(t, "ConnectionStatus(99)", ConnectionStatus(99).String())
}

// TestDecodeReason 测试原因解析及回退
func TestDecodeReason(t *testing.T) {
	tests := []struct {
		name     string
		reason   string
		fallback ConnectionStatus
		want     ConnectionStatus
	}{
		{"empty", "", StatusStartClientFailed, StatusStartClientFailed},
		{"garbled", "{not json", StatusGenericDisconnect, StatusGenericDisconnect},
		{"unknown name", `"WHATEVER"`, StatusStartHostFailed, StatusStartHostFailed},
		{"host ended", EncodeReason(StatusHostEndedSession), StatusStartClientFailed, StatusHostEndedSession},
		{"logged in again", `"LOGGED_IN_AGAIN"`, StatusGenericDisconnect, StatusLoggedInAgain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeReason(tt.reason, tt.fallback))
		})
	}
}

// TestConnectionStateKind_String 测试阶段名称
func TestConnectionStateKind_String(t *testing.T) {
	tests := []struct {
		k    ConnectionStateKind
		want string
	}{
		{StateOffline, "OFFLINE"},
		{StateStartingHost, "STARTING_HOST"},
		{StateHosting, "HOSTING"},
		{StateClientConnecting, "CLIENT_CONNECTING"},
		{StateClientConnected, "CLIENT_CONNECTED"},
		{ConnectionStateKind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.k.String())
		})
	}

	assert.False(t, StateOffline.IsOnline())
	assert.True(t, StateHosting.IsOnline())
	assert.True(t, StateStartingHost.IsHost())
	assert.False(t, StateClientConnected.IsHost())
}
