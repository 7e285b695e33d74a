package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ArtistPriceUpdateReq struct {
	Price  float64 `json:"price" binding:"required,gt=0"`
	Volume int64   `json:"volume" binding:"gte=0"`
}

type PriceHistoryItem struct {
	Price      decimal.Decimal `json:"price"`
	Volume     int64           `json:"volume"`
	RecordedAt time.Time       `json:"recorded_at"`
}

type PriceHistoryRes struct {
	Symbol  string             `json:"symbol"`
	Days    int                `json:"days"`
	History []PriceHistoryItem `json:"history"`
}

type ArtistCreateReq struct {
	Symbol          string  `json:"symbol" binding:"required,max=16"`
	Name            string  `json:"name" binding:"required,max=128"`
	Genre           string  `json:"genre" binding:"omitempty,max=64"`
	CurrentPrice    float64 `json:"current_price" binding:"required,gt=0"`
	MarketCap       float64 `json:"market_cap" binding:"gte=0"`
	TotalScrobbles  int64   `json:"total_scrobbles" binding:"gte=0"`
	WeeklyScrobbles int64   `json:"weekly_scrobbles" binding:"gte=0"`
	ImageUrl        string  `json:"image_url" binding:"omitempty,url"`
	LastfmUrl       string  `json:"lastfm_url" binding:"omitempty,url"`
}
