package model

import "github.com/shopspring/decimal"

type LeaderboardItem struct {
	Rank               int             `json:"rank"`
	UserId             int64           `json:"user_id,string"`
	Username           string          `json:"username"`
	DisplayName        string          `json:"display_name"`
	AvatarUrl          string          `json:"avatar_url"`
	TotalScrobbles     int64           `json:"total_scrobbles"`
	PortfolioValue     decimal.Decimal `json:"portfolio_value"`
	TotalReturn        decimal.Decimal `json:"total_return"`
	TotalReturnPercent decimal.Decimal `json:"total_return_percent"`
}
