package sessionbinder

import (
	"sync"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/lib/log"
	"github.com/dep2p/go-netsession/pkg/types"
)

var logger = log.Logger("core/sessionbinder")

// EventSource 同步事件来源
type EventSource interface {
	Subscribe(fn func(types.Event)) (unsubscribe func())
}

// Binder 会话绑定器
type Binder struct {
	sessions pkgif.SessionDirectory
	emitter  pkgif.Emitter

	closeOnce   sync.Once
	unsubscribe func()
}

// New 创建绑定器并订阅 source
//
// bus 为 nil 时不发布 ConnectionEventMessage。
func New(source EventSource, sessions pkgif.SessionDirectory, bus pkgif.EventBus) (*Binder, error) {
	b := &Binder{sessions: sessions}
	if bus != nil {
		em, err := bus.Emitter(new(types.ConnectionEventMessage))
		if err != nil {
			return nil, err
		}
		b.emitter = em
	}
	b.unsubscribe = source.Subscribe(b.handle)
	return b, nil
}

// Close 取消订阅并关闭发射器
func (b *Binder) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.unsubscribe()
		if b.emitter != nil {
			err = b.emitter.Close()
		}
	})
	return err
}

func (b *Binder) handle(ev types.Event) {
	switch e := ev.(type) {
	case types.ApprovalEvent:
		b.onApproval(e)
	case types.ClientConnectedEvent:
		b.publish(e.Status, e.ClientID)
	case types.ClientDisconnectedEvent:
		b.publish(e.Status, e.ClientID)
	}
}

// onApproval 主机接受连接时绑定玩家
func (b *Binder) onApproval(e types.ApprovalEvent) {
	if !e.Approved() {
		return
	}
	if e.State != types.StateStartingHost && e.State != types.StateHosting {
		return
	}

	payload, err := types.DecodeConnectionPayload(e.Request.Payload)
	if err != nil {
		logger.Warn("已接受连接的载荷无法解析", "client", e.Request.ClientID, "err", err)
		return
	}
	if payload.PlayerID == "" {
		logger.Warn("已接受连接没有玩家 ID", "client", e.Request.ClientID)
		return
	}

	b.sessions.SetupConnectingPlayer(e.Request.ClientID, payload.PlayerID, types.PlayerData{
		ClientID:    e.Request.ClientID,
		PlayerName:  payload.PlayerName,
		IsConnected: true,
	})
	logger.Debug("已绑定玩家",
		"client", e.Request.ClientID,
		"player", log.TruncateID(payload.PlayerID, 8),
		"state", e.State.String())
}

// publish 发布玩家进出消息
func (b *Binder) publish(status types.ConnectionStatus, clientID uint64) {
	if b.emitter == nil {
		return
	}
	playerID, ok := b.sessions.PlayerID(clientID)
	if !ok {
		return
	}
	data, ok := b.sessions.PlayerData(playerID)
	if !ok {
		return
	}
	if err := b.emitter.Emit(types.NewConnectionEventMessage(status, data.PlayerName)); err != nil {
		logger.Debug("发布会话消息失败", "err", err)
	}
}
