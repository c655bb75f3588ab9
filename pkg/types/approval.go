package types

// Vector3 出生位置
type Vector3 struct {
	X, Y, Z float32
}

// Quaternion 出生朝向
type Quaternion struct {
	X, Y, Z, W float32
}

// IdentityRotation 单位四元数（无旋转）
var IdentityRotation = Quaternion{W: 1}

// ApprovalRequest 传输层提交的准入请求
type ApprovalRequest struct {
	// ClientID 请求方的传输层连接 ID
	ClientID uint64

	// Payload 请求方携带的原始载荷（ConnectionPayload 的 JSON）
	Payload []byte
}

// ApprovalResponse 准入检查结果
//
// 零值表示拒绝且无原因。
type ApprovalResponse struct {
	// Approved 是否接受
	Approved bool

	// Reason 拒绝原因（ConnectionStatus 的 JSON 编码），接受时为空
	Reason string

	// CreatePlayerObject 是否为该连接创建玩家对象
	CreatePlayerObject bool

	// Position 出生位置
	Position Vector3

	// Rotation 出生朝向
	Rotation Quaternion
}

// Approve 接受请求并使用默认出生位姿
func (r *ApprovalResponse) Approve() {
	r.Approved = true
	r.Reason = ""
	r.CreatePlayerObject = true
	r.Position = Vector3{}
	r.Rotation = IdentityRotation
}

// Deny 拒绝请求并附带原因
func (r *ApprovalResponse) Deny(status ConnectionStatus) {
	r.Approved = false
	r.CreatePlayerObject = false
	r.Reason = EncodeReason(status)
}

// DenySilently 拒绝请求且不附带原因
func (r *ApprovalResponse) DenySilently() {
	r.Approved = false
	r.CreatePlayerObject = false
	r.Reason = ""
}
