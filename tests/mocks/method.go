package mocks

import (
	"context"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
)

// MockMethod 模拟连接方式
type MockMethod struct {
	NameValue  string
	PlayerName string

	// 可覆盖的方法
	SetupHostFunc   func(ctx context.Context) error
	SetupClientFunc func(ctx context.Context) error

	// 调用记录
	HostCalls     int
	ClientCalls   int
	TeardownCalls int
}

var _ pkgif.ConnectionMethod = (*MockMethod)(nil)

// Name 返回方式名称
func (m *MockMethod) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// SetupHostConnection 记录调用
func (m *MockMethod) SetupHostConnection(ctx context.Context) error {
	m.HostCalls++
	if m.SetupHostFunc != nil {
		return m.SetupHostFunc(ctx)
	}
	return nil
}

// SetupClientConnection 记录调用
func (m *MockMethod) SetupClientConnection(ctx context.Context) error {
	m.ClientCalls++
	if m.SetupClientFunc != nil {
		return m.SetupClientFunc(ctx)
	}
	return nil
}

// Teardown 记录调用
func (m *MockMethod) Teardown() {
	m.TeardownCalls++
}

// MockMethodFactory 记录每次创建的 MockMethod
type MockMethodFactory struct {
	// Template 新实例复制其 Func 字段
	Template MockMethod
	Created  []*MockMethod
}

// New 实现 interfaces.ConnectionMethodFactory
func (f *MockMethodFactory) New(playerName string) pkgif.ConnectionMethod {
	m := &MockMethod{
		NameValue:       f.Template.NameValue,
		PlayerName:      playerName,
		SetupHostFunc:   f.Template.SetupHostFunc,
		SetupClientFunc: f.Template.SetupClientFunc,
	}
	f.Created = append(f.Created, m)
	return m
}

// Last 返回最近创建的实例
func (f *MockMethodFactory) Last() *MockMethod {
	if len(f.Created) == 0 {
		return nil
	}
	return f.Created[len(f.Created)-1]
}
