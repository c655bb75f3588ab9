package connection

import (
	"golang.org/x/time/rate"

	pkgif "github.com/dep2p/go-netsession/pkg/interfaces"
	"github.com/dep2p/go-netsession/pkg/types"
)

// ============================================================================
//                              准入校验
// ============================================================================

// approvalValidator 主机侧准入校验
//
// 校验顺序：
//  1. 速率限制（可选），超限静默拒绝
//  2. 载荷超过 MaxConnectionPayloadSize 时静默拒绝，不解码
//  3. 载荷无法解码时静默拒绝
//  4. 在线连接数已达上限 → SERVER_FULL
//  5. 构建类型不一致 → INCOMPATIBLE_BUILD_TYPE
//  6. 玩家已有在线连接 → LOGGED_IN_AGAIN
type approvalValidator struct {
	maxPlayers int
	debugBuild bool
	transport  pkgif.Transport
	registry   pkgif.SessionRegistry
	limiter    *rate.Limiter
}

func newApprovalValidator(cfg Config, transport pkgif.Transport, registry pkgif.SessionRegistry) *approvalValidator {
	v := &approvalValidator{
		maxPlayers: cfg.MaxConnectedPlayers,
		debugBuild: cfg.DebugBuild,
		transport:  transport,
		registry:   registry,
	}
	if cfg.ApprovalRateLimit > 0 {
		burst := cfg.ApprovalBurst
		if burst <= 0 {
			burst = 1
		}
		v.limiter = rate.NewLimiter(rate.Limit(cfg.ApprovalRateLimit), burst)
	}
	return v
}

// approvalResult 校验结果
type approvalResult struct {
	response types.ApprovalResponse
	// payload 解码成功时有效
	payload *types.ConnectionPayload
	status  types.ConnectionStatus
}

// validate 执行校验
func (v *approvalValidator) validate(req types.ApprovalRequest) approvalResult {
	var res approvalResult

	if v.limiter != nil && !v.limiter.Allow() {
		logger.Warn("准入检查超出速率限制", "client", req.ClientID)
		return res
	}

	if !types.PayloadWithinLimit(req.Payload) {
		logger.Warn("准入载荷过大", "client", req.ClientID, "size", len(req.Payload))
		return res
	}

	payload, err := types.DecodeConnectionPayload(req.Payload)
	if err != nil {
		logger.Warn("准入载荷无法解析", "client", req.ClientID, "err", err)
		return res
	}
	res.payload = &payload

	res.status = v.status(payload)
	if res.status == types.StatusSuccess {
		res.response.Approve()
		return res
	}

	res.response.Deny(res.status)
	return res
}

// status 计算准入结论
func (v *approvalValidator) status(payload types.ConnectionPayload) types.ConnectionStatus {
	if len(v.transport.ConnectedClientIDs()) >= v.maxPlayers {
		return types.StatusServerFull
	}
	if payload.IsDebug != v.debugBuild {
		return types.StatusIncompatibleBuildType
	}
	if v.registry.IsDuplicateConnection(payload.PlayerID) {
		return types.StatusLoggedInAgain
	}
	return types.StatusSuccess
}
