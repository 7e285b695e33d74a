package query

import (
	"gorm.io/gorm"
	"scrobblex/internal/model/entity"
)

// AutoMigrate 建表，本地 sqlite 模式和测试使用，线上 mysql 由 DBA 维护表结构
func AutoMigrate(ds *gorm.DB) error {
	return ds.AutoMigrate(
		&entity.User{},
		&entity.Artist{},
		&entity.PriceHistory{},
		&entity.Position{},
		&entity.Transaction{},
		&entity.Watchlist{},
	)
}
