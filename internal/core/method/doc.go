// Package method 实现连接前的准备策略
//
// 两种方式：
//   - Direct: 写入直连地址/端口和握手载荷
//   - Relay: 主机创建中继分配并通过大厅发布加入码；客户端从大厅读取
//     加入码后加入分配
//
// 两种方式都会先用认证服务给出的玩家 ID 写入握手载荷（主机本身也是
// 一个客户端）。任一步骤失败时返回包装了 ErrHostConnectionFailed 或
// ErrClientConnectionFailed 的错误，调用方不应启动传输层。
package method
