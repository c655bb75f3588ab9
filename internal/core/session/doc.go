// Package session 实现内存会话注册表
//
// 注册表维护传输层连接 ID 与持久玩家 ID 的双向映射，以及玩家数据。
// 会话开始后断开的玩家保留数据，重连时重新绑定新的连接 ID；会话开始
// 前断开的玩家直接移除。
package session
