package method

import (
	"context"
	"fmt"

	"github.com/dep2p/go-netsession/config"
	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// Direct 直连方式
type Direct struct {
	base
	address string
	port    uint16
}

var _ pkgif.ConnectionMethod = (*Direct)(nil)

// NewDirect 创建直连方式
func NewDirect(deps Deps, playerName, address string, port uint16) *Direct {
	return &Direct{
		base:    base{deps: deps, playerName: playerName},
		address: address,
		port:    port,
	}
}

// Name 返回 "direct"
func (d *Direct) Name() string {
	return config.MethodDirect
}

// SetupHostConnection 写入载荷和监听地址
func (d *Direct) SetupHostConnection(_ context.Context) error {
	if err := d.writePayload(); err != nil {
		return fmt.Errorf("%w: %w", ErrHostConnectionFailed, err)
	}
	d.deps.Transport.SetDirectEndpoint(d.address, d.port)
	logger.Debug("直连主机准备完成", "address", d.address, "port", d.port)
	return nil
}

// SetupClientConnection 写入载荷和目标地址
func (d *Direct) SetupClientConnection(_ context.Context) error {
	if err := d.writePayload(); err != nil {
		return fmt.Errorf("%w: %w", ErrClientConnectionFailed, err)
	}
	d.deps.Transport.SetDirectEndpoint(d.address, d.port)
	logger.Debug("直连客户端准备完成", "address", d.address, "port", d.port)
	return nil
}

// Teardown 直连不占用外部资源
func (d *Direct) Teardown() {}
