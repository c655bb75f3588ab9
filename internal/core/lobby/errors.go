package lobby

import "errors"

var (
	// ErrLobbyNotFound 大厅不存在
	ErrLobbyNotFound = errors.New("lobby: not found")

	// ErrLobbyFull 大厅已满
	ErrLobbyFull = errors.New("lobby: full")

	// ErrNotInLobby 未加入大厅
	ErrNotInLobby = errors.New("lobby: not in lobby")

	// ErrAlreadyInLobby 已在大厅中
	ErrAlreadyInLobby = errors.New("lobby: already in lobby")

	// ErrNotHost 只有主机可执行此操作
	ErrNotHost = errors.New("lobby: not host")

	// ErrPlayerNotFound 成员不存在
	ErrPlayerNotFound = errors.New("lobby: player not found")

	// ErrInvalidLobby 无效的大厅参数
	ErrInvalidLobby = errors.New("lobby: invalid lobby")
)
