// Package connection 实现对等主机会话的连接生命周期状态机
//
// 状态机在 OFFLINE、STARTING_HOST、HOSTING、CLIENT_CONNECTING、
// CLIENT_CONNECTED 五个阶段之间转换，并统一处理三类控制流：
//
//   - 用户意图：StartClient / StartHost / RequestShutdown
//   - 传输层回调：连接、断开、服务端启停、传输故障、准入检查
//   - 带外准备工作：中继分配、加入码交换（由 ConnectionMethod 完成）
//
// # 并发模型
//
// 每个 Connection 有唯一的控制 goroutine，所有进入状态机的调用都在其上
// 执行，状态机本身不加锁。生产环境使用 Loop 作为控制 goroutine，测试中
// 直接在测试 goroutine 上调用并配合 SyncRunner。
//
// 分派是串行的：处理某个事件期间到达的新事件会排队，在当前处理结束后
// 依次执行，任意两次状态转换不会交错。准入检查例外，它必须同步返回结果，
// 因此总是立即在当前状态上执行。
//
// # 事件
//
// 状态机通过单一出口向 Connection 发送事件，Connection 记录最近状态后
// 同步通知监听者，并在配置了事件总线时异步扇出：
//
//   - StatusChangedEvent
//   - StateChangedEvent
//   - ClientConnectedEvent / ClientDisconnectedEvent
//   - ApprovalEvent
package connection
