package query

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"scrobblex/internal/model/entity"
)

// 本地 sqlite 模式的演示数据
var seedArtists = []entity.Artist{
	{Symbol: "TSWIFT", Name: "Taylor Swift", Genre: "pop", CurrentPrice: decimal.RequireFromString("185.42"), MarketCap: decimal.RequireFromString("92710000"), TotalScrobbles: 3200000000, WeeklyScrobbles: 41000000},
	{Symbol: "DRAKE", Name: "Drake", Genre: "hip-hop", CurrentPrice: decimal.RequireFromString("142.10"), MarketCap: decimal.RequireFromString("71050000"), TotalScrobbles: 2500000000, WeeklyScrobbles: 28000000},
	{Symbol: "RADIOHEAD", Name: "Radiohead", Genre: "alternative", CurrentPrice: decimal.RequireFromString("96.75"), MarketCap: decimal.RequireFromString("48375000"), TotalScrobbles: 2100000000, WeeklyScrobbles: 9000000},
	{Symbol: "BJORK", Name: "Björk", Genre: "electronic", CurrentPrice: decimal.RequireFromString("38.20"), MarketCap: decimal.RequireFromString("19100000"), TotalScrobbles: 640000000, WeeklyScrobbles: 2100000},
	{Symbol: "SZA", Name: "SZA", Genre: "r&b", CurrentPrice: decimal.RequireFromString("77.05"), MarketCap: decimal.RequireFromString("38525000"), TotalScrobbles: 880000000, WeeklyScrobbles: 15000000},
}

// Seed 艺人表为空时写入演示艺人和一个管理员账号
func Seed(ctx context.Context, ds *gorm.DB, openingBalance decimal.Decimal) error {
	var n int64
	if err := ds.WithContext(ctx).Model(&entity.Artist{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		artists := make([]entity.Artist, len(seedArtists))
		copy(artists, seedArtists)
		if err := tx.Create(&artists).Error; err != nil {
			return err
		}
		return tx.Create(&entity.User{
			Id:             1,
			Username:       "demo",
			DisplayName:    "Demo Listener",
			LastfmUsername: "demo",
			LastfmVerified: true,
			IsAdmin:        true,
			Balance:        openingBalance,
		}).Error
	})
}
