// Package lobby 实现进程内大厅目录（LobbyService）
//
// Directory 是同一进程内所有玩家共享的大厅存储；Client 是单个玩家
// 对目录的视图，实现 LobbyService。Client 缓存所在大厅的快照，
// 跟踪（BeginTracking）期间目录变更会实时推送到快照，未跟踪时
// 快照只在 Refresh 或本端写操作后更新。
package lobby
