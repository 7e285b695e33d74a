package query

import (
	"context"
	"time"

	"gorm.io/gorm"
	"scrobblex/internal/dao"
	"scrobblex/internal/model/entity"
)

var _ dao.ArtistDao = (*artistDao)(nil)

type artistDao struct {
	ds *gorm.DB
}

func NewArtistDao(ds *gorm.DB) *artistDao {
	return &artistDao{ds: ds}
}

func (a *artistDao) ArtistGetList(ctx context.Context) (list []entity.Artist, err error) {
	err = a.ds.WithContext(ctx).Order("market_cap DESC").Order("id").Find(&list).Error
	return
}

func (a *artistDao) ArtistGetBySymbol(ctx context.Context, symbol string) (artist entity.Artist, err error) {
	err = a.ds.WithContext(ctx).Where("symbol = ?", symbol).Take(&artist).Error
	return
}

func (a *artistDao) ArtistGetById(ctx context.Context, artistId int64) (artist entity.Artist, err error) {
	err = a.ds.WithContext(ctx).Where("id = ?", artistId).Take(&artist).Error
	return
}

func (a *artistDao) ArtistGetByIds(ctx context.Context, artistIds []int64) (list []entity.Artist, err error) {
	if len(artistIds) == 0 {
		return nil, nil
	}
	err = a.ds.WithContext(ctx).Where("id IN ?", artistIds).Find(&list).Error
	return
}

func (a *artistDao) ArtistCreate(ctx context.Context, artist *entity.Artist) error {
	if artist == nil {
		return gorm.ErrInvalidData
	}
	return a.ds.WithContext(ctx).Create(artist).Error
}

func (a *artistDao) ArtistPriceUpdate(ctx context.Context, artist *entity.Artist, history *entity.PriceHistory) error {
	return a.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 更新当前价格
		err := tx.Model(&entity.Artist{}).Where("id = ?", artist.Id).Updates(map[string]interface{}{
			"current_price":        artist.CurrentPrice,
			"price_change":         artist.PriceChange,
			"price_change_percent": artist.PriceChangePercent,
			"volume":               artist.Volume,
		}).Error
		if err != nil {
			return err
		}

		// 2. 追加价格历史
		return tx.Create(history).Error
	})
}

func (a *artistDao) PriceHistoryGet(ctx context.Context, artistId int64, since time.Time) (list []entity.PriceHistory, err error) {
	err = a.ds.WithContext(ctx).
		Where("artist_id = ? AND recorded_at >= ?", artistId, since).
		Order("recorded_at ASC").
		Find(&list).Error
	return
}
