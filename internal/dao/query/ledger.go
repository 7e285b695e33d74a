package query

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"scrobblex/internal/dao"
	"scrobblex/internal/ledger"
	"scrobblex/internal/model/entity"
)

var _ dao.LedgerDao = (*ledgerDao)(nil)

// ledgerDao 账本的 gorm 实现：账户即 user 表的 balance/version 列
type ledgerDao struct {
	ds *gorm.DB
}

func NewLedgerDao(ds *gorm.DB) *ledgerDao {
	return &ledgerDao{ds: ds}
}

func (d *ledgerDao) Atomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return d.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerTx{tx: tx})
	})
}

func (d *ledgerDao) ListTransactionsForUser(ctx context.Context, userID int64, page, limit int) ([]ledger.Transaction, error) {
	q := d.ds.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * limit).Limit(limit)
	}
	var rows []entity.Transaction
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	list := make([]ledger.Transaction, 0, len(rows))
	for i := range rows {
		list = append(list, toLedgerTransaction(&rows[i]))
	}
	return list, nil
}

func (d *ledgerDao) PositionsGetByUser(ctx context.Context, userId int64) (list []entity.Position, err error) {
	err = d.ds.WithContext(ctx).Where("user_id = ?", userId).Order("artist_id").Find(&list).Error
	return
}

func (d *ledgerDao) PositionsGetByUsers(ctx context.Context, userIds []int64) (list []entity.Position, err error) {
	if len(userIds) == 0 {
		return nil, nil
	}
	err = d.ds.WithContext(ctx).Where("user_id IN ?", userIds).Find(&list).Error
	return
}

type ledgerTx struct {
	tx *gorm.DB
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.ErrNotFound
	}
	return err
}

func (t *ledgerTx) GetAccount(ctx context.Context, userID int64) (*ledger.Account, error) {
	var user entity.User
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "balance", "version").
		Where("id = ?", userID).
		Take(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &ledger.Account{UserID: user.Id, CashBalance: user.Balance, Version: user.Version}, nil
}

func (t *ledgerTx) UpdateAccount(ctx context.Context, account *ledger.Account) error {
	res := t.tx.WithContext(ctx).Model(&entity.User{}).
		Where("id = ? AND version = ?", account.UserID, account.Version).
		Updates(map[string]interface{}{
			"balance": account.CashBalance,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: account %d version %d is stale", ledger.ErrStorageConflict, account.UserID, account.Version)
	}
	account.Version++
	return nil
}

func (t *ledgerTx) GetPosition(ctx context.Context, userID, instrumentID int64) (*ledger.Position, error) {
	var p entity.Position
	err := t.tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND artist_id = ?", userID, instrumentID).
		Take(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &ledger.Position{
		UserID:        p.UserId,
		InstrumentID:  p.ArtistId,
		ShareCount:    p.Shares,
		AverageCost:   p.AveragePrice,
		TotalInvested: p.TotalInvested,
	}, nil
}

func (t *ledgerTx) UpsertPosition(ctx context.Context, position *ledger.Position) error {
	return t.tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "artist_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"shares", "average_price", "total_invested", "updated_at"}),
		}).
		Create(&entity.Position{
			UserId:        position.UserID,
			ArtistId:      position.InstrumentID,
			Shares:        position.ShareCount,
			AveragePrice:  position.AverageCost,
			TotalInvested: position.TotalInvested,
		}).Error
}

func (t *ledgerTx) DeletePosition(ctx context.Context, userID, instrumentID int64) error {
	return t.tx.WithContext(ctx).
		Where("user_id = ? AND artist_id = ?", userID, instrumentID).
		Delete(&entity.Position{}).Error
}

func (t *ledgerTx) AppendTransaction(ctx context.Context, txn *ledger.Transaction) error {
	row, err := fromLedgerTransaction(txn)
	if err != nil {
		return err
	}
	err = t.tx.WithContext(ctx).Create(row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: duplicate transaction for user %d key %q", ledger.ErrStorageConflict, txn.UserID, txn.IdempotencyKey)
	}
	return err
}

func (t *ledgerTx) FindTransactionByKey(ctx context.Context, userID int64, key string) (*ledger.Transaction, error) {
	var row entity.Transaction
	err := t.tx.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		Take(&row).Error
	if err != nil {
		return nil, notFound(err)
	}
	txn := toLedgerTransaction(&row)
	return &txn, nil
}

func fromLedgerTransaction(txn *ledger.Transaction) (*entity.Transaction, error) {
	row := &entity.Transaction{
		Id:        txn.ID,
		UserId:    txn.UserID,
		ArtistId:  txn.InstrumentID,
		Type:      string(txn.Side),
		Shares:    txn.ShareCount,
		Price:     txn.Price,
		Total:     txn.Total,
		CreatedAt: txn.Timestamp,
	}
	if txn.IdempotencyKey != "" {
		key := txn.IdempotencyKey
		row.IdempotencyKey = &key
	}
	if len(txn.Metadata) > 0 {
		extras, err := json.Marshal(txn.Metadata)
		if err != nil {
			return nil, err
		}
		row.Extras = datatypes.JSON(extras)
	}
	return row, nil
}

func toLedgerTransaction(row *entity.Transaction) ledger.Transaction {
	txn := ledger.Transaction{
		ID:           row.Id,
		UserID:       row.UserId,
		InstrumentID: row.ArtistId,
		Side:         ledger.Side(row.Type),
		ShareCount:   row.Shares,
		Price:        row.Price,
		Total:        row.Total,
		Timestamp:    row.CreatedAt.UTC(),
	}
	if row.IdempotencyKey != nil {
		txn.IdempotencyKey = *row.IdempotencyKey
	}
	if len(row.Extras) > 0 {
		_ = json.Unmarshal(row.Extras, &txn.Metadata)
	}
	return txn
}
