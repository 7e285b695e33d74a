package model

import "github.com/shopspring/decimal"

// 用户信息
type UserInfo struct {
	Id             int64           `json:"id,string"`
	Username       string          `json:"username"`
	DisplayName    string          `json:"display_name"`
	AvatarUrl      string          `json:"avatar_url"`
	LastfmUsername string          `json:"lastfm_username"`
	LastfmVerified bool            `json:"lastfm_verified"`
	TotalScrobbles int64           `json:"total_scrobbles"`
	IsAdmin        bool            `json:"is_admin"`
	Balance        decimal.Decimal `json:"balance"`
}

type UserBalanceRes struct {
	Balance decimal.Decimal `json:"balance"`
}

type UserLogoutRes struct {
	IsSuccess bool `json:"is_success"`
}
