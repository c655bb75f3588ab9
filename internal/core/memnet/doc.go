// Package memnet 实现进程内传输网络
//
// Network 是同一进程内所有对等端共享的“网络”，主机按端点注册：
//   - 直连：address:port
//   - 中继：主机分配 ID，客户端须持有相同的会话密钥
//
// 每个 Transport 绑定一个 Poster（通常是连接的控制 Loop），所有
// TransportEventHandler 回调都投递到该 Poster 上执行。主机的准入
// 检查在主机自己的控制 goroutine 上同步执行。
//
// 主机本端的连接 ID 固定为 ServerClientID，远端客户端从 1 开始分配。
package memnet
