// Package interfaces 定义 netsession 的公共接口
//
// 连接生命周期核心只通过这些接口与外部协作方交互，
// 生产实现由 internal/core 下各包提供，测试使用 tests/mocks。
//
// # 协作方接口
//
//   - transport.go      - 传输层（启动/关闭、断开、事件回调、连接配置）
//   - relay.go          - 中继分配服务
//   - lobby.go          - 大厅目录服务
//   - auth.go           - 认证服务（稳定玩家 ID）
//   - session.go        - 会话/玩家注册表
//
// # 基础设施接口
//
//   - eventbus.go       - 事件总线
//
// # 依赖方向
//
//	connection → method → interfaces → types
//
// 禁止反向依赖。
package interfaces
