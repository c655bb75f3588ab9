// Package mocks 提供统一的测试 Mock 实现
//
// # 协作者 Mock
//
//   - MockTransport: 模拟 interfaces.Transport，可手动触发传输层回调
//   - MockLobby: 模拟 interfaces.LobbyService
//   - MockRelay: 模拟 interfaces.RelayService
//   - MockAuth: 模拟 interfaces.AuthService
//   - MockSessionRegistry: 模拟 interfaces.SessionRegistry
//   - MockMethod: 模拟 interfaces.ConnectionMethod
//
// # 设计原则
//
// 1. 函数式注入: 每个 Mock 都支持通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 关键 Mock 记录调用历史，便于验证测试行为
// 3. 非并发安全: 只在单个测试 goroutine 上使用
//
// # 使用示例
//
//	tr := mocks.NewMockTransport(0)
//	tr.StartHostResult = false
//	...
//	require.Equal(t, 1, tr.StartHostCalls)
package mocks
