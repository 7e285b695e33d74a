package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"scrobblex/utils"
)

// Artist 可交易的艺人，价格由运营后台根据 scrobble 数据更新
type Artist struct {
	Id                 int64           `gorm:"column:id;primary_key" json:"id"`
	Symbol             string          `gorm:"column:symbol;size:16;not null;unique" json:"symbol"`
	Name               string          `gorm:"column:name;size:128;not null" json:"name"`
	Genre              string          `gorm:"column:genre;size:64" json:"genre"`
	CurrentPrice       decimal.Decimal `gorm:"column:current_price;type:decimal(20,6);not null" json:"price"`
	PriceChange        decimal.Decimal `gorm:"column:price_change;type:decimal(20,6);not null;default:0" json:"change"`
	PriceChangePercent decimal.Decimal `gorm:"column:price_change_percent;type:decimal(10,2);not null;default:0" json:"change_percent"`
	Volume             int64           `gorm:"column:volume;default:0" json:"volume"`
	MarketCap          decimal.Decimal `gorm:"column:market_cap;type:decimal(24,2);not null;default:0;index" json:"market_cap"`
	TotalScrobbles     int64           `gorm:"column:total_scrobbles;default:0" json:"total_scrobbles"`
	WeeklyScrobbles    int64           `gorm:"column:weekly_scrobbles;default:0" json:"weekly_scrobbles"`
	ImageUrl           string          `gorm:"column:image_url" json:"image_url"`
	LastfmUrl          string          `gorm:"column:lastfm_url" json:"lastfm_url"`
	CreatedAt          utils.JsonTime  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          utils.JsonTime  `gorm:"column:updated_at" json:"updated_at"`
}

func (Artist) TableName() string {
	return "artist"
}

// PriceHistory 艺人价格快照，每次调价追加一条
type PriceHistory struct {
	Id         int64           `gorm:"column:id;primary_key;autoIncrement:false" json:"id"`
	ArtistId   int64           `gorm:"column:artist_id;not null;index:idx_artist_recorded,priority:1" json:"artist_id"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(20,6);not null" json:"price"`
	Volume     int64           `gorm:"column:volume;default:0" json:"volume"`
	RecordedAt time.Time       `gorm:"column:recorded_at;not null;index:idx_artist_recorded,priority:2" json:"recorded_at"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}
