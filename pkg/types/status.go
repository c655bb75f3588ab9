package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ============================================================================
//                              ConnectionStatus - 连接状态原因
// ============================================================================

// ConnectionStatus 最近一次状态变更事件的原因
//
// 与状态机当前所处的阶段（ConnectionStateKind）相互独立：
// 同一阶段可能因不同原因进入，调用方通过 ConnectionStatus 获知「为什么」。
//
// 线格式为带引号的枚举名（如 "SERVER_FULL"），既用作传输层断开原因，
// 也用作准入拒绝原因，断开的客户端据此还原被拒绝的原因。
type ConnectionStatus int

const (
	// StatusUndefined 未定义
	StatusUndefined ConnectionStatus = iota
	// StatusSuccess 连接成功（也可能是重连成功）
	StatusSuccess
	// StatusServerFull 主机已满员
	StatusServerFull
	// StatusLoggedInAgain 同一玩家在其他客户端登录
	StatusLoggedInAgain
	// StatusUserRequestedDisconnect 用户主动断开
	StatusUserRequestedDisconnect
	// StatusGenericDisconnect 断开，未给出具体原因
	StatusGenericDisconnect
	// StatusIncompatibleBuildType 客户端构建类型与主机不兼容
	StatusIncompatibleBuildType
	// StatusHostEndedSession 主机主动结束会话
	StatusHostEndedSession
	// StatusStartHostFailed 主机启动失败
	StatusStartHostFailed
	// StatusStartClientFailed 客户端启动失败或端点无效
	StatusStartClientFailed
)

var statusNames = [...]string{
	StatusUndefined:               "UNDEFINED",
	StatusSuccess:                 "SUCCESS",
	StatusServerFull:              "SERVER_FULL",
	StatusLoggedInAgain:           "LOGGED_IN_AGAIN",
	StatusUserRequestedDisconnect: "USER_REQUESTED_DISCONNECT",
	StatusGenericDisconnect:       "GENERIC_DISCONNECT",
	StatusIncompatibleBuildType:   "INCOMPATIBLE_BUILD_TYPE",
	StatusHostEndedSession:        "HOST_ENDED_SESSION",
	StatusStartHostFailed:         "START_HOST_FAILED",
	StatusStartClientFailed:       "START_CLIENT_FAILED",
}

// AllStatuses 返回全部状态值（按定义顺序）
func AllStatuses() []ConnectionStatus {
	out := make([]ConnectionStatus, len(statusNames))
	for i := range statusNames {
		out[i] = ConnectionStatus(i)
	}
	return out
}

// IsValid 检查是否为已定义的状态
func (s ConnectionStatus) IsValid() bool {
	return s >= StatusUndefined && int(s) < len(statusNames)
}

// String 返回状态的字符串表示
func (s ConnectionStatus) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("ConnectionStatus(%d)", int(s))
	}
	return statusNames[s]
}

// ParseConnectionStatus 从枚举名解析状态
func ParseConnectionStatus(name string) (ConnectionStatus, error) {
	for i, n := range statusNames {
		if n == name {
			return ConnectionStatus(i), nil
		}
	}
	return StatusUndefined, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
}

// MarshalText 实现 encoding.TextMarshaler
func (s ConnectionStatus) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (s *ConnectionStatus) UnmarshalText(text []byte) error {
	v, err := ParseConnectionStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// UnmarshalJSON 实现 json.Unmarshaler
//
// 支持两种格式:
//   - 字符串: 枚举名，例如 "HOST_ENDED_SESSION"
//   - 数字: 枚举序号（兼容只写序号的对端）
func (s *ConnectionStatus) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		return s.UnmarshalText([]byte(name))
	}

	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownStatus, data)
	}
	v := ConnectionStatus(n)
	if !v.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownStatus, n)
	}
	*s = v
	return nil
}

// EncodeReason 将状态编码为断开/拒绝原因字符串
func EncodeReason(s ConnectionStatus) string {
	data, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeReason 从断开/拒绝原因字符串解析状态
//
// 原因为空或无法解析时返回 fallback。
func DecodeReason(reason string, fallback ConnectionStatus) ConnectionStatus {
	if reason == "" {
		return fallback
	}
	var s ConnectionStatus
	if err := json.Unmarshal([]byte(reason), &s); err != nil {
		return fallback
	}
	return s
}
