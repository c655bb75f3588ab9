package interfaces

import "context"

// ConnectionMethod 定义连接前的准备策略
//
// 准备阶段在传输层启动之前执行：写入直连地址，或完成中继分配并通过
// 大厅交换加入码。任一步骤失败时返回错误，传输层不会被启动。
type ConnectionMethod interface {
	// Name 返回方式名称（relay / direct）
	Name() string

	// SetupHostConnection 以主机身份准备连接
	SetupHostConnection(ctx context.Context) error

	// SetupClientConnection 以客户端身份准备连接
	SetupClientConnection(ctx context.Context) error

	// Teardown 归还准备阶段占用的资源（中继分配、加入名额）
	//
	// 离开对应的在线阶段时调用，可重复调用。之后完成的准备立即归还其资源。
	Teardown()
}

// ConnectionMethodFactory 按玩家显示名创建连接方式
//
// 每次启动请求都会创建新的实例。
type ConnectionMethodFactory func(playerName string) ConnectionMethod
