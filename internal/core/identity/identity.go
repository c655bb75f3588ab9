package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/minio/sha256-simd"
	"github.com/mr-tron/base58"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/lib/log"
)

var logger = log.Logger("core/identity")

// ============================================================================
//                              Static
// ============================================================================

// Static 固定玩家 ID 的认证服务
type Static struct {
	id string
}

var _ pkgif.AuthService = (*Static)(nil)

// NewStatic 创建固定 ID 认证服务
func NewStatic(playerID string) (*Static, error) {
	if playerID == "" {
		return nil, ErrEmptyPlayerID
	}
	return &Static{id: playerID}, nil
}

// PlayerID 返回玩家 ID
func (s *Static) PlayerID() string {
	return s.id
}

// ============================================================================
//                              Identity
// ============================================================================

// Identity 由 Ed25519 密钥派生玩家 ID 的认证服务
type Identity struct {
	priv     ed25519.PrivateKey
	pub      ed25519.PublicKey
	playerID string
}

var _ pkgif.AuthService = (*Identity)(nil)

// New 从私钥创建身份
func New(priv ed25519.PrivateKey) (*Identity, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, ErrNilPrivateKey
	}
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil, ErrUnsupportedKeyType
	}
	id, err := PlayerIDFromPublicKey(pub)
	if err != nil {
		return nil, err
	}
	return &Identity{priv: priv, pub: pub, playerID: id}, nil
}

// Generate 生成新的随机身份
func Generate() (*Identity, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("identity: generate key: %w", err)
	}
	return New(priv)
}

// PlayerID 返回派生的玩家 ID
func (i *Identity) PlayerID() string {
	return i.playerID
}

// PublicKey 返回公钥
func (i *Identity) PublicKey() ed25519.PublicKey {
	return i.pub
}

// PrivateKey 返回私钥
func (i *Identity) PrivateKey() ed25519.PrivateKey {
	return i.priv
}

// Sign 使用私钥签名
func (i *Identity) Sign(data []byte) []byte {
	return ed25519.Sign(i.priv, data)
}

// Verify 验证签名
func (i *Identity) Verify(data, sig []byte) bool {
	return ed25519.Verify(i.pub, data, sig)
}

// PlayerIDFromPublicKey 从公钥派生玩家 ID
//
// 派生算法：Base58(SHA256(公钥))
func PlayerIDFromPublicKey(pub ed25519.PublicKey) (string, error) {
	if len(pub) == 0 {
		return "", ErrEmptyPublicKey
	}
	sum := sha256.Sum256(pub)
	return base58.Encode(sum[:]), nil
}
