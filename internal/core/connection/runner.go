package connection

import "sync"

// TaskRunner 执行带外工作
//
// task 可能在任意 goroutine 上执行；done 必须回到控制 goroutine 上调用。
type TaskRunner interface {
	Run(task func() error, done func(error))
}

// ============================================================================
//                              SyncRunner
// ============================================================================

// SyncRunner 在调用方 goroutine 上同步执行任务
//
// 用于测试和单线程调用方。
type SyncRunner struct{}

// Run 立即执行 task 并以其结果调用 done
func (SyncRunner) Run(task func() error, done func(error)) {
	done(task())
}

// ============================================================================
//                              LoopRunner
// ============================================================================

// LoopRunner 在独立 goroutine 上执行任务，完成后把 done 投递回 Loop
type LoopRunner struct {
	loop *Loop
	wg   sync.WaitGroup
}

// NewLoopRunner 创建绑定到 loop 的执行器
func NewLoopRunner(loop *Loop) *LoopRunner {
	return &LoopRunner{loop: loop}
}

// Run 异步执行 task
//
// Loop 已停止时 done 被丢弃。
func (r *LoopRunner) Run(task func() error, done func(error)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		err := task()
		if !r.loop.Post(func() { done(err) }) {
			logger.Debug("事件循环已停止，丢弃任务结果", "err", err)
		}
	}()
}

// Wait 等待所有已提交任务结束
func (r *LoopRunner) Wait() {
	r.wg.Wait()
}
