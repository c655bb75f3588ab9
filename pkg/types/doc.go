// Package types 定义 netsession 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 netsession 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
// 枚举:
//   - status.go     - ConnectionStatus 连接状态原因（含 JSON 编解码）
//   - state_kind.go - ConnectionStateKind 状态机阶段
//
// 线格式:
//   - payload.go    - ConnectionPayload 握手载荷（1024 字节上限）
//   - approval.go   - ApprovalRequest / ApprovalResponse
//
// 协作方数据:
//   - relay.go      - Allocation / JoinAllocation / RelayServerData
//   - lobby.go      - Lobby / LobbyPlayer
//   - session.go    - PlayerData
//
// 事件:
//   - events.go     - 对外发布的连接事件
//   - errors.go     - 公共错误定义
package types
