package types

import "errors"

// ============================================================================
//                              编解码错误
// ============================================================================

var (
	// ErrUnknownStatus 未知的连接状态名称
	ErrUnknownStatus = errors.New("types: unknown connection status")

	// ErrPayloadTooLarge 握手载荷超过上限
	ErrPayloadTooLarge = errors.New("types: connection payload too large")

	// ErrInvalidPayload 握手载荷无法解析
	ErrInvalidPayload = errors.New("types: invalid connection payload")

	// ErrEmptyPlayerID 玩家 ID 为空
	ErrEmptyPlayerID = errors.New("types: empty player ID")
)
