// Package netsession 提供对等托管会话的连接生命周期管理
//
// 一个 Peer 可以作为主机创建会话，也可以作为客户端加入会话。连接
// 状态机在单一控制 goroutine 上运行，经连接方式（直连或中继 + 大厅）
// 完成准备后启动传输层，并对加入请求执行准入检查。
//
// 同一进程内的多个 Peer 通过 Environment 共享进程内网络、大厅目录
// 和中继服务：
//
//	env, _ := netsession.NewEnvironment()
//
//	host, _ := netsession.New(netsession.WithEnvironment(env),
//		netsession.WithPlayerName("alice"))
//	_ = host.Start(ctx)
//	_, _ = host.Lobby().CreateLobby(ctx, "room", 4)
//	_ = host.StartHost(ctx)
//
//	guest, _ := netsession.New(netsession.WithEnvironment(env),
//		netsession.WithPlayerName("bob"))
//	_ = guest.Start(ctx)
//	_, _ = guest.Lobby().QuickJoin(ctx)
//	_ = guest.StartClient(ctx)
//	_, _ = guest.AwaitState(ctx, types.StateClientConnected)
package netsession
