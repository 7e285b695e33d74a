package ecode

// 业务错误码，0 表示成功
const (
	Success = 0
	Unknown = 10000

	// 通用
	ValidateErr    = 10001 // 参数校验失败
	NotFoundErr    = 10002 // 记录不存在
	RequireAuthErr = 10003 // 未登录或token无效
	PermissionErr  = 10004 // 没有权限
	TooManyReqErr  = 10005 // 请求过于频繁
	ConflictErr    = 10006 // 并发冲突，稍后重试

	// 交易
	InsufficientFundsErr  = 20001 // 余额不足
	InsufficientSharesErr = 20002 // 持仓不足
	PriceChangedErr       = 20003 // 价格已变动
	ArtistNotFoundErr     = 20004 // 艺人不存在
)

var messages = map[int]string{
	Success:               "success",
	Unknown:               "unknown error",
	ValidateErr:           "invalid request",
	NotFoundErr:           "not found",
	RequireAuthErr:        "authentication required",
	PermissionErr:         "permission denied",
	TooManyReqErr:         "too many requests",
	ConflictErr:           "concurrent modification, please retry",
	InsufficientFundsErr:  "insufficient balance",
	InsufficientSharesErr: "insufficient shares",
	PriceChangedErr:       "price has changed",
	ArtistNotFoundErr:     "artist not found",
}

// Message 错误码的默认提示
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[Unknown]
}
