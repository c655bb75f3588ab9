package types

// ConnectionTypeDTLS 中继连接使用 DTLS 加密
const ConnectionTypeDTLS = "dtls"

// Allocation 主机侧中继分配
type Allocation struct {
	// AllocationID 分配 ID
	AllocationID string

	// Region 中继所在区域
	Region string

	// Endpoint 中继服务端点
	Endpoint string

	// ConnectionData 本端连接数据
	ConnectionData []byte

	// Key 会话密钥
	Key []byte

	// MaxConnections 分配容量
	MaxConnections int
}

// JoinAllocation 客户端通过加入码得到的中继分配
type JoinAllocation struct {
	// AllocationID 客户端自身的分配 ID
	AllocationID string

	// HostAllocationID 主机分配 ID
	HostAllocationID string

	// Region 中继所在区域
	Region string

	// Endpoint 中继服务端点
	Endpoint string

	// ConnectionData 本端连接数据
	ConnectionData []byte

	// HostConnectionData 主机连接数据
	HostConnectionData []byte

	// Key 会话密钥
	Key []byte
}

// RelayServerData 写入传输层配置的中继连接数据
type RelayServerData struct {
	AllocationID       string
	HostAllocationID   string
	Endpoint           string
	ConnectionType     string
	ConnectionData     []byte
	HostConnectionData []byte
	Key                []byte
	IsHost             bool
}

// HostRelayServerData 由主机分配构造中继连接数据
func HostRelayServerData(a *Allocation, connectionType string) RelayServerData {
	return RelayServerData{
		AllocationID:       a.AllocationID,
		HostAllocationID:   a.AllocationID,
		Endpoint:           a.Endpoint,
		ConnectionType:     connectionType,
		ConnectionData:     a.ConnectionData,
		HostConnectionData: a.ConnectionData,
		Key:                a.Key,
		IsHost:             true,
	}
}

// ClientRelayServerData 由客户端分配构造中继连接数据
func ClientRelayServerData(j *JoinAllocation, connectionType string) RelayServerData {
	return RelayServerData{
		AllocationID:       j.AllocationID,
		HostAllocationID:   j.HostAllocationID,
		Endpoint:           j.Endpoint,
		ConnectionType:     connectionType,
		ConnectionData:     j.ConnectionData,
		HostConnectionData: j.HostConnectionData,
		Key:                j.Key,
	}
}
