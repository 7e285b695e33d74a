package dao

import (
	"context"
	"time"

	"scrobblex/internal/model/entity"
)

type ArtistDao interface {
	// 全部艺人，按市值倒序
	ArtistGetList(ctx context.Context) ([]entity.Artist, error)
	ArtistGetBySymbol(ctx context.Context, symbol string) (entity.Artist, error)
	ArtistGetById(ctx context.Context, artistId int64) (entity.Artist, error)
	ArtistGetByIds(ctx context.Context, artistIds []int64) ([]entity.Artist, error)
	ArtistCreate(ctx context.Context, artist *entity.Artist) error
	// 更新价格并追加一条价格历史，在同一个事务内完成
	ArtistPriceUpdate(ctx context.Context, artist *entity.Artist, history *entity.PriceHistory) error
	// since 之后的价格历史，按时间正序
	PriceHistoryGet(ctx context.Context, artistId int64, since time.Time) ([]entity.PriceHistory, error)
}
