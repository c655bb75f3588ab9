// Package sessionbinder 把连接事件同步到会话注册表
//
// 主机接受准入请求时解析握手载荷，把连接 ID 绑定到玩家 ID 和玩家数据；
// 客户端加入或离开主机时，在事件总线上发布带玩家名的 ConnectionEventMessage。
package sessionbinder
