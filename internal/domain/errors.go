package domain

import "errors"

// 领域错误：全部是同步终态错误，调用方不重试（ErrConflict 除外，
// 客户端可重新拉取后再试）。transport 层统一映射成响应码。
var (
	ErrNotFound      = errors.New("record not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("already accepted")
	ErrDuplicateEdge = errors.New("contact already exists")
	ErrInvalidState  = errors.New("invalid state for this transition")
)
