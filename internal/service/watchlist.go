package service

import (
	"context"

	"scrobblex/internal/dao"
	"scrobblex/internal/model/entity"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
)

type WatchlistService interface {
	WatchlistGet(ctx context.Context, userId int64) ([]entity.Artist, error)
	WatchlistAdd(ctx context.Context, userId, artistId int64) error
	WatchlistRemove(ctx context.Context, userId, artistId int64) error
}

type watchlistService struct {
	wd dao.WatchlistDao
	ad dao.ArtistDao
}

func NewWatchlistService(wd dao.WatchlistDao, ad dao.ArtistDao) *watchlistService {
	return &watchlistService{wd: wd, ad: ad}
}

func (w *watchlistService) WatchlistGet(ctx context.Context, userId int64) ([]entity.Artist, error) {
	items, err := w.wd.WatchlistGet(ctx, userId)
	if err != nil {
		return nil, err
	}
	list := make([]entity.Artist, 0, len(items))
	for _, item := range items {
		list = append(list, item.Artist)
	}
	return list, nil
}

func (w *watchlistService) WatchlistAdd(ctx context.Context, userId, artistId int64) error {
	if _, err := w.ad.ArtistGetById(ctx, artistId); err != nil {
		if isNotFound(err) {
			return errors.WithCode(ecode.ArtistNotFoundErr, "artist %d not found", artistId)
		}
		return err
	}
	return w.wd.WatchlistAdd(ctx, userId, artistId)
}

func (w *watchlistService) WatchlistRemove(ctx context.Context, userId, artistId int64) error {
	return w.wd.WatchlistRemove(ctx, userId, artistId)
}
