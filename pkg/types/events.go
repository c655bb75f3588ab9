package types

import "time"

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型
	Type() string

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
type BaseEvent struct {
	EventType string
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() string {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// 事件类型常量
const (
	EventStatusChanged          = "connection.status_changed"
	EventStateChanged           = "connection.state_changed"
	EventClientConnectedToHost  = "connection.client_connected"
	EventClientDisconnectedHost = "connection.client_disconnected"
	EventConnectionApproved     = "connection.approved"
	EventConnectionDisapproved  = "connection.disapproved"
	EventSessionMessage         = "session.message"
)

// ============================================================================
//                              连接事件
// ============================================================================

// StatusChangedEvent 连接状态原因变更
type StatusChangedEvent struct {
	BaseEvent
	Status ConnectionStatus
}

// StateChangedEvent 状态机阶段变更
//
// 初始状态安装时没有前一状态，HasPrevious 为 false。
type StateChangedEvent struct {
	BaseEvent
	Previous    ConnectionStateKind
	HasPrevious bool
	Current     ConnectionStateKind
}

// ClientConnectedEvent 客户端连接到本主机
type ClientConnectedEvent struct {
	BaseEvent
	Status   ConnectionStatus
	ClientID uint64
}

// ClientDisconnectedEvent 客户端从本主机断开
type ClientDisconnectedEvent struct {
	BaseEvent
	Status   ConnectionStatus
	ClientID uint64
}

// ApprovalEvent 准入检查完成
//
// State 为检查发生时的阶段。
type ApprovalEvent struct {
	BaseEvent
	State    ConnectionStateKind
	Request  ApprovalRequest
	Response ApprovalResponse
}

// Approved 是否已接受
func (e ApprovalEvent) Approved() bool {
	return e.Response.Approved
}

// ConnectionEventMessage 会话层广播的玩家进出消息
type ConnectionEventMessage struct {
	BaseEvent
	Status     ConnectionStatus
	PlayerName string
}

// ============================================================================
//                              构造函数
// ============================================================================

// NewStatusChangedEvent 创建状态原因变更事件
func NewStatusChangedEvent(status ConnectionStatus) StatusChangedEvent {
	return StatusChangedEvent{BaseEvent: NewBaseEvent(EventStatusChanged), Status: status}
}

// NewStateChangedEvent 创建阶段变更事件
func NewStateChangedEvent(previous ConnectionStateKind, hasPrevious bool, current ConnectionStateKind) StateChangedEvent {
	return StateChangedEvent{
		BaseEvent:   NewBaseEvent(EventStateChanged),
		Previous:    previous,
		HasPrevious: hasPrevious,
		Current:     current,
	}
}

// NewClientConnectedEvent 创建客户端连接事件
func NewClientConnectedEvent(status ConnectionStatus, clientID uint64) ClientConnectedEvent {
	return ClientConnectedEvent{BaseEvent: NewBaseEvent(EventClientConnectedToHost), Status: status, ClientID: clientID}
}

// NewClientDisconnectedEvent 创建客户端断开事件
func NewClientDisconnectedEvent(status ConnectionStatus, clientID uint64) ClientDisconnectedEvent {
	return ClientDisconnectedEvent{BaseEvent: NewBaseEvent(EventClientDisconnectedHost), Status: status, ClientID: clientID}
}

// NewApprovalEvent 创建准入事件，类型由响应决定
func NewApprovalEvent(state ConnectionStateKind, req ApprovalRequest, resp ApprovalResponse) ApprovalEvent {
	typ := EventConnectionDisapproved
	if resp.Approved {
		typ = EventConnectionApproved
	}
	return ApprovalEvent{BaseEvent: NewBaseEvent(typ), State: state, Request: req, Response: resp}
}

// NewConnectionEventMessage 创建玩家进出消息
func NewConnectionEventMessage(status ConnectionStatus, playerName string) ConnectionEventMessage {
	return ConnectionEventMessage{BaseEvent: NewBaseEvent(EventSessionMessage), Status: status, PlayerName: playerName}
}
