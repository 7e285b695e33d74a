package ledger

import "errors"

// 交易引擎返回的错误类型，均可被调用方用 errors.Is 判断。
// 除 ErrStorageConflict 外都不应重试。
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrStorageConflict 存储层检测到并发修改（版本号不一致或幂等键冲突），
	// 调用方应从校验开始重试整个操作
	ErrStorageConflict = errors.New("storage conflict")

	// ErrNotFound 由存储实现返回，表示记录不存在
	ErrNotFound = errors.New("record not found")
)

// Retryable 判断错误是否可以由调用方重试
func Retryable(err error) bool {
	return errors.Is(err, ErrStorageConflict)
}
