package types

import (
	"encoding/json"
	"fmt"
)

// MaxConnectionPayloadSize 握手载荷最大字节数
//
// 超过此长度的载荷在解码前直接拒绝，限制恶意大包的解析开销。
const MaxConnectionPayloadSize = 1024

// ConnectionPayload 连接准入握手中携带的载荷
//
// 线格式为 UTF-8 JSON：
//
//	{"player_id": "...", "player_name": "...", "is_debug": false}
type ConnectionPayload struct {
	// PlayerID 认证服务给出的稳定玩家 ID
	PlayerID string `json:"player_id"`

	// PlayerName 玩家显示名
	PlayerName string `json:"player_name"`

	// IsDebug 是否为调试构建
	IsDebug bool `json:"is_debug"`
}

// Encode 序列化载荷
func (p ConnectionPayload) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if len(data) > MaxConnectionPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}
	return data, nil
}

// PayloadWithinLimit 检查载荷长度是否在上限内
func PayloadWithinLimit(data []byte) bool {
	return len(data) <= MaxConnectionPayloadSize
}

// DecodeConnectionPayload 解析载荷
//
// 长度检查先于解码执行：超限的载荷不会被解析。
func DecodeConnectionPayload(data []byte) (ConnectionPayload, error) {
	if !PayloadWithinLimit(data) {
		return ConnectionPayload{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	var p ConnectionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ConnectionPayload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return p, nil
}
