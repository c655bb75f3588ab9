package netsession

import (
	"github.com/dep2p/go-netsession/internal/core/lobby"
	"github.com/dep2p/go-netsession/internal/core/memnet"
	"github.com/dep2p/go-netsession/internal/core/relay"
)

// Environment 同一进程内多个 Peer 共享的基础设施
type Environment struct {
	// Network 进程内传输网络
	Network *memnet.Network

	// Lobbies 大厅目录
	Lobbies *lobby.Directory

	// Relay 中继分配服务
	Relay *relay.Broker
}

// NewEnvironment 使用默认中继配置创建共享环境
func NewEnvironment() (*Environment, error) {
	return NewEnvironmentWithRelay(relay.DefaultConfig())
}

// NewEnvironmentWithRelay 使用指定中继配置创建共享环境
func NewEnvironmentWithRelay(cfg relay.Config) (*Environment, error) {
	broker, err := relay.NewBroker(cfg)
	if err != nil {
		return nil, err
	}
	return &Environment{
		Network: memnet.NewNetwork(),
		Lobbies: lobby.NewDirectory(),
		Relay:   broker,
	}, nil
}
