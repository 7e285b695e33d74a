package dao

import (
	"context"

	"scrobblex/internal/ledger"
	"scrobblex/internal/model/entity"
)

// LedgerDao 账本的数据库存储，同时提供持仓的只读查询
type LedgerDao interface {
	ledger.Store
	PositionsGetByUser(ctx context.Context, userId int64) ([]entity.Position, error)
	PositionsGetByUsers(ctx context.Context, userIds []int64) ([]entity.Position, error)
}
