// Package eventbus 实现进程内事件总线
//
// 连接状态机的对外事件同步触发在控制 goroutine 上；
// 本包负责把这些事件异步扇出给其他 goroutine 上的订阅者，
// 例如 UI 刷新、会话消息通道、演示程序的输出。
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	sub, _ := bus.Subscribe(new(types.StatusChangedEvent))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(types.StatusChangedEvent)
//	        // 处理事件
//	    }
//	}()
//
//	em, _ := bus.Emitter(new(types.StatusChangedEvent))
//	defer em.Close()
//	em.Emit(types.NewStatusChangedEvent(types.StatusSuccess))
//
// # 并发安全
//
// 所有方法均并发安全。订阅者缓冲区满时事件被丢弃，发射方永不阻塞，
// 因此可以直接在状态机的控制 goroutine 上调用 Emit。
package eventbus
