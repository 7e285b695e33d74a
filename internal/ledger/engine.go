package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"scrobblex/pkg/logger"
	"scrobblex/utils/uuid"
)

// Engine 账本更新引擎：校验一次交易，并原子地更新账户、持仓，追加流水
type Engine struct {
	store  Store
	locker Locker
	nextID func() int64
	now    func() time.Time
}

type Option func(*Engine)

// WithIDGenerator 替换流水id生成器，默认使用雪花算法
func WithIDGenerator(f func() int64) Option {
	return func(e *Engine) { e.nextID = f }
}

// WithClock 替换时间来源
func WithClock(f func() time.Time) Option {
	return func(e *Engine) { e.now = f }
}

func NewEngine(store Store, locker Locker, opts ...Option) *Engine {
	node := uuid.NewNode(1)
	e := &Engine{
		store:  store,
		locker: locker,
		nextID: node.GenSnowID,
		now:    time.Now,
	}
	if e.locker == nil {
		e.locker = NewLocalLocker()
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func lockKey(userID int64) string {
	return "ledger:user:" + strconv.FormatInt(userID, 10)
}

// Outcome 一次执行的结果。Replayed 表示命中幂等键，流水是之前已经成交的那一笔
type Outcome struct {
	Transaction *Transaction
	Replayed    bool
}

// ExecuteTrade 执行一笔买入或卖出，只返回流水
func (e *Engine) ExecuteTrade(ctx context.Context, req TradeRequest) (*Transaction, error) {
	out, err := e.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return out.Transaction, nil
}

// Execute 执行一笔买入或卖出。
// 同一用户的交易在 Locker 上串行；三处写入在同一个存储事务内提交。
// 携带幂等键且已成交过的请求直接返回已有的流水，不再写入。
// 成交价按分取整，不足一分的价格被拒绝，成交额因此总是精确的分。
func (e *Engine) Execute(ctx context.Context, req TradeRequest) (Outcome, error) {
	if err := req.validate(); err != nil {
		return Outcome{}, err
	}
	price := roundCash(req.Price)
	if !price.IsPositive() {
		return Outcome{}, fmt.Errorf("%w: price %s is below one cent", ErrInvalidInput, req.Price)
	}
	total := price.Mul(decimal.NewFromInt(req.ShareCount))

	release, err := e.locker.Lock(ctx, lockKey(req.UserID))
	if err != nil {
		return Outcome{}, fmt.Errorf("acquire ledger lock: %w", err)
	}
	defer release()

	var out Outcome
	err = e.store.Atomic(ctx, func(tx Tx) error {
		if req.IdempotencyKey != "" {
			prev, err := tx.FindTransactionByKey(ctx, req.UserID, req.IdempotencyKey)
			if err == nil {
				logger.Infof("重复的交易请求 user=%d key=%s, 返回已有流水 %d", req.UserID, req.IdempotencyKey, prev.ID)
				out = Outcome{Transaction: prev, Replayed: true}
				return nil
			}
			if !errors.Is(err, ErrNotFound) {
				return err
			}
		}

		account, err := tx.GetAccount(ctx, req.UserID)
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrUserNotFound, req.UserID)
		}
		if err != nil {
			return err
		}

		position, err := tx.GetPosition(ctx, req.UserID, req.InstrumentID)
		if errors.Is(err, ErrNotFound) {
			position = nil
		} else if err != nil {
			return err
		}

		var next *Position
		switch req.Side {
		case Buy:
			next, err = applyBuy(account, position, req, price, total)
		case Sell:
			next, err = applySell(account, position, req, total)
		}
		if err != nil {
			return err
		}

		if err := tx.UpdateAccount(ctx, account); err != nil {
			return err
		}
		if next.ShareCount == 0 {
			if err := tx.DeletePosition(ctx, req.UserID, req.InstrumentID); err != nil {
				return err
			}
		} else if err := tx.UpsertPosition(ctx, next); err != nil {
			return err
		}

		txn := &Transaction{
			ID:             e.nextID(),
			UserID:         req.UserID,
			InstrumentID:   req.InstrumentID,
			Side:           req.Side,
			ShareCount:     req.ShareCount,
			Price:          price,
			Total:          total,
			IdempotencyKey: req.IdempotencyKey,
			Timestamp:      e.now().UTC(),
			Metadata:       req.Metadata,
		}
		if err := tx.AppendTransaction(ctx, txn); err != nil {
			return err
		}
		out = Outcome{Transaction: txn}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// applyBuy 扣减现金，按加权平均更新持仓。account 会被原地修改
func applyBuy(account *Account, position *Position, req TradeRequest, price, total decimal.Decimal) (*Position, error) {
	if account.CashBalance.LessThan(total) {
		return nil, fmt.Errorf("%w: balance %s, required %s", ErrInsufficientFunds, account.CashBalance.StringFixed(CashScale), total.StringFixed(CashScale))
	}
	account.CashBalance = account.CashBalance.Sub(total)

	if position == nil {
		return &Position{
			UserID:        req.UserID,
			InstrumentID:  req.InstrumentID,
			ShareCount:    req.ShareCount,
			AverageCost:   price,
			TotalInvested: total,
		}, nil
	}

	shares := position.ShareCount + req.ShareCount
	invested := position.TotalInvested.Add(total)
	return &Position{
		UserID:        position.UserID,
		InstrumentID:  position.InstrumentID,
		ShareCount:    shares,
		AverageCost:   roundCost(invested.Div(decimal.NewFromInt(shares))),
		TotalInvested: invested,
	}, nil
}

// applySell 增加现金，剩余股份按原均价计成本，均价不变
func applySell(account *Account, position *Position, req TradeRequest, total decimal.Decimal) (*Position, error) {
	if position == nil || position.ShareCount < req.ShareCount {
		held := int64(0)
		if position != nil {
			held = position.ShareCount
		}
		return nil, fmt.Errorf("%w: holding %d, selling %d", ErrInsufficientShares, held, req.ShareCount)
	}
	account.CashBalance = account.CashBalance.Add(total)

	shares := position.ShareCount - req.ShareCount
	// 均价不低于一分，剩余成本在持仓期间始终为正；清仓后归零
	invested := roundCash(position.AverageCost.Mul(decimal.NewFromInt(shares)))
	return &Position{
		UserID:        position.UserID,
		InstrumentID:  position.InstrumentID,
		ShareCount:    shares,
		AverageCost:   position.AverageCost,
		TotalInvested: invested,
	}, nil
}
