package domain

import "errors"

// 领域级哨兵错误：service 层只返回这些，由 transport 层映射为 HTTP 状态码。
// 可降级的外部网关故障在网关内部消化成空结果；必须反馈给调用方的
// （如绑定外部账号时供应商不可用）折叠成 ErrUpstream，绝不裸抛 500。
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrSelfApproval     = errors.New("cannot approve own review")
	ErrAlreadyModerator = errors.New("user is already a moderator")
	ErrConflict         = errors.New("conflict")
	ErrUpstream         = errors.New("upstream service unavailable")
)
