package dao

import (
	"context"

	"scrobblex/internal/model/entity"
)

type WatchlistDao interface {
	// 用户自选列表，带艺人信息
	WatchlistGet(ctx context.Context, userId int64) ([]entity.Watchlist, error)
	// 重复添加不报错
	WatchlistAdd(ctx context.Context, userId, artistId int64) error
	WatchlistRemove(ctx context.Context, userId, artistId int64) error
}
