package identity

import "errors"

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrNilPrivateKey 私钥为 nil
	ErrNilPrivateKey = errors.New("identity: private key is nil")

	// ErrEmptyPublicKey 空公钥
	ErrEmptyPublicKey = errors.New("identity: empty public key")

	// ErrEmptyPlayerID 玩家 ID 为空
	ErrEmptyPlayerID = errors.New("identity: empty player id")

	// ErrKeyNotFound 密钥文件不存在
	ErrKeyNotFound = errors.New("identity: key not found")

	// ErrInvalidPEM 无效的 PEM 数据
	ErrInvalidPEM = errors.New("identity: invalid PEM data")

	// ErrUnsupportedKeyType 不支持的密钥类型
	ErrUnsupportedKeyType = errors.New("identity: unsupported key type")
)
