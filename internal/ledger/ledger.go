package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// CashScale 现金、成交额保留两位小数
	CashScale int32 = 2
	// CostScale 持仓均价保留六位小数
	CostScale int32 = 6
)

type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

// Account 用户现金账户，CashBalance 永远不为负
type Account struct {
	UserID      int64
	CashBalance decimal.Decimal
	// 乐观锁版本号，每次更新加一
	Version int64
}

// Position 用户在某个艺人上的持仓
type Position struct {
	UserID        int64
	InstrumentID  int64
	ShareCount    int64
	AverageCost   decimal.Decimal // 当前持有股份的加权平均成本
	TotalInvested decimal.Decimal // 当前持有股份的成本总额
}

// Transaction 一笔已成交的交易，创建后不可修改
type Transaction struct {
	ID             int64
	UserID         int64
	InstrumentID   int64
	Side           Side
	ShareCount     int64
	Price          decimal.Decimal
	Total          decimal.Decimal
	IdempotencyKey string
	Timestamp      time.Time
	// 调用方附带的请求信息，随流水原样保存
	Metadata map[string]string
}

// TradeRequest 一次下单意图，价格由调用方给出
type TradeRequest struct {
	UserID         int64
	InstrumentID   int64
	Side           Side
	ShareCount     int64
	Price          decimal.Decimal
	IdempotencyKey string
	Metadata       map[string]string
}

func (r TradeRequest) validate() error {
	if r.UserID == 0 {
		return fmt.Errorf("%w: missing user id", ErrInvalidInput)
	}
	if r.InstrumentID == 0 {
		return fmt.Errorf("%w: missing instrument id", ErrInvalidInput)
	}
	if !r.Side.Valid() {
		return fmt.Errorf("%w: side must be buy or sell, got %q", ErrInvalidInput, r.Side)
	}
	if r.ShareCount <= 0 {
		return fmt.Errorf("%w: share count must be positive, got %d", ErrInvalidInput, r.ShareCount)
	}
	if !r.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive, got %s", ErrInvalidInput, r.Price)
	}
	return nil
}

// PriceFromFloat 把浮点价格转换为 decimal，拒绝 NaN 和无穷大
func PriceFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%w: price is not a finite number", ErrInvalidInput)
	}
	return decimal.NewFromFloat(f), nil
}

func roundCash(d decimal.Decimal) decimal.Decimal {
	return d.Round(CashScale)
}

func roundCost(d decimal.Decimal) decimal.Decimal {
	return d.Round(CostScale)
}
