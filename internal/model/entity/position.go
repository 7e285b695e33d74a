package entity

import (
	"github.com/shopspring/decimal"
	"scrobblex/utils"
)

// Position 用户持仓，每个用户每个艺人最多一条，清仓后删除
type Position struct {
	Id            int64           `gorm:"column:id;primary_key" json:"id"`
	UserId        int64           `gorm:"column:user_id;not null;uniqueIndex:idx_user_artist,priority:1" json:"user_id"`
	ArtistId      int64           `gorm:"column:artist_id;not null;uniqueIndex:idx_user_artist,priority:2" json:"artist_id"`
	Shares        int64           `gorm:"column:shares;not null" json:"shares"`
	AveragePrice  decimal.Decimal `gorm:"column:average_price;type:decimal(20,6);not null" json:"average_price"`
	TotalInvested decimal.Decimal `gorm:"column:total_invested;type:decimal(20,2);not null" json:"total_invested"`
	CreatedAt     utils.JsonTime  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     utils.JsonTime  `gorm:"column:updated_at" json:"updated_at"`
}

func (Position) TableName() string {
	return "position"
}
