package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 买卖请求，price 为客户端看到的价格，仅用于校验价格是否变动
type TradeReq struct {
	ArtistId       int64    `json:"artist_id" binding:"required,gt=0"`
	Shares         int64    `json:"shares" binding:"required,gt=0"`
	Side           string   `json:"side" binding:"required,side"`
	Price          *float64 `json:"price" binding:"omitempty,gt=0"`
	IdempotencyKey string   `json:"idempotency_key" binding:"omitempty,max=64"`
}

type TradeRes struct {
	Message     string          `json:"message"`
	Transaction TransactionItem `json:"transaction"`
	Balance     decimal.Decimal `json:"balance"`
	// 清仓后为 nil
	Position *PositionItem `json:"position"`
}

type PositionItem struct {
	ArtistId      int64           `json:"artist_id"`
	Shares        int64           `json:"shares"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	TotalInvested decimal.Decimal `json:"total_invested"`
}

type TransactionItem struct {
	Id        int64           `json:"id,string"`
	Type      string          `json:"type"`
	ArtistId  int64           `json:"artist_id"`
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Shares    int64           `json:"shares"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

type TransactionsGetReq struct {
	Page  int `form:"page" binding:"omitempty,gte=1"`
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=200"`
}
