package ledger

import "context"

// Store 账本存储，账户、持仓、流水三张表
type Store interface {
	// Atomic 在一个存储事务内执行 fn，fn 返回 error 时所有写入回滚
	Atomic(ctx context.Context, fn func(tx Tx) error) error
	// ListTransactionsForUser 按时间倒序分页查询用户流水，page 从 1 开始
	ListTransactionsForUser(ctx context.Context, userID int64, page, limit int) ([]Transaction, error)
}

// Tx 事务内可用的读写操作
type Tx interface {
	// 账户不存在时返回 ErrNotFound
	GetAccount(ctx context.Context, userID int64) (*Account, error)
	// 按 account.Version 做乐观锁更新，版本不一致返回 ErrStorageConflict，成功后版本号加一
	UpdateAccount(ctx context.Context, account *Account) error

	// 持仓不存在时返回 ErrNotFound
	GetPosition(ctx context.Context, userID, instrumentID int64) (*Position, error)
	UpsertPosition(ctx context.Context, position *Position) error
	DeletePosition(ctx context.Context, userID, instrumentID int64) error

	// 幂等键重复时返回 ErrStorageConflict
	AppendTransaction(ctx context.Context, txn *Transaction) error
	// 不存在时返回 ErrNotFound
	FindTransactionByKey(ctx context.Context, userID int64, key string) (*Transaction, error)
}

// Locker 按 key 互斥，返回的 release 必须被调用
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}
