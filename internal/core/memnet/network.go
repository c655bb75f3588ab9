package memnet

import (
	"sort"
	"sync"

	"github.com/dep2p/go-netsession/pkg/lib/log"
)

var logger = log.Logger("core/memnet")

// Network 进程内共享网络
type Network struct {
	mu    sync.Mutex
	hosts map[string]*Transport
}

// NewNetwork 创建网络
func NewNetwork() *Network {
	return &Network{hosts: make(map[string]*Transport)}
}

// register 注册主机端点，端点已被占用时返回 false
func (n *Network) register(endpoint string, t *Transport) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.hosts[endpoint]; ok {
		return false
	}
	n.hosts[endpoint] = t
	return true
}

func (n *Network) unregister(endpoint string, t *Transport) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.hosts[endpoint] == t {
		delete(n.hosts, endpoint)
	}
}

func (n *Network) lookup(endpoint string) (*Transport, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	t, ok := n.hosts[endpoint]
	return t, ok
}

// Endpoints 返回已注册的主机端点
func (n *Network) Endpoints() []string {
	n.mu.Lock()
	out := make([]string, 0, len(n.hosts))
	for ep := range n.hosts {
		out = append(out, ep)
	}
	n.mu.Unlock()
	sort.Strings(out)
	return out
}
