// Package identity 提供玩家身份（AuthService）实现
//
// 两种实现：
//   - Static：固定玩家 ID，适合测试和演示
//   - Identity：由 Ed25519 公钥派生玩家 ID
//
// 玩家 ID 派生算法：Base58(SHA256(公钥))。
// 私钥可持久化为 PEM 文件，重启后玩家 ID 保持不变。
package identity
