// Package relay 实现进程内中继分配服务（RelayService）
//
// Broker 模拟中继服务的分配流程：
//
//	主机 CreateAllocation ──► GetJoinCode ──► 大厅发布加入码
//	                                              │
//	客户端 ◄── JoinAllocation(加入码) ◄────────────┘
//
// # 组件
//
//   - Broker (broker.go)：分配表与加入码表，均为有界 LRU
//   - Limiter (limiter.go)：分配请求速率限制与每分配加入容量
//
// 分配 ID 使用 UUID；加入码为分配 ID 哈希的 Base58 前缀；
// 会话密钥由 broker 私有密钥与分配 ID 经 SHA-256 派生。
package relay
