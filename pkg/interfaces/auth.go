package interfaces

// AuthService 定义认证服务接口
//
// 核心只在构造握手载荷时读取玩家 ID，不关心认证方式。
type AuthService interface {
	// PlayerID 返回当前玩家的稳定 ID
	PlayerID() string
}
