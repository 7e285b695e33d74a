package model

import "github.com/shopspring/decimal"

type PortfolioPosition struct {
	ArtistId        int64           `json:"artist_id"`
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name"`
	Genre           string          `json:"genre"`
	ImageUrl        string          `json:"image_url"`
	Shares          int64           `json:"shares"`
	AveragePrice    decimal.Decimal `json:"average_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	TotalInvested   decimal.Decimal `json:"total_invested"`
	GainLoss        decimal.Decimal `json:"gain_loss"`
	GainLossPercent decimal.Decimal `json:"gain_loss_percent"`
	DayGainLoss     decimal.Decimal `json:"day_gain_loss"`
}

// 持仓汇总，TotalValue 包含现金
type PortfolioRes struct {
	Balance              decimal.Decimal     `json:"balance"`
	PositionsValue       decimal.Decimal     `json:"positions_value"`
	TotalValue           decimal.Decimal     `json:"total_value"`
	TotalInvested        decimal.Decimal     `json:"total_invested"`
	TotalGainLoss        decimal.Decimal     `json:"total_gain_loss"`
	TotalGainLossPercent decimal.Decimal     `json:"total_gain_loss_percent"`
	DayGainLoss          decimal.Decimal     `json:"day_gain_loss"`
	Positions            []PortfolioPosition `json:"positions"`
}
