package query

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"scrobblex/internal/dao"
	"scrobblex/internal/model/entity"
)

var _ dao.WatchlistDao = (*watchlistDao)(nil)

type watchlistDao struct {
	ds *gorm.DB
}

func NewWatchlistDao(ds *gorm.DB) *watchlistDao {
	return &watchlistDao{ds: ds}
}

func (w *watchlistDao) WatchlistGet(ctx context.Context, userId int64) (list []entity.Watchlist, err error) {
	err = w.ds.WithContext(ctx).
		Preload("Artist").
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Order("id DESC").
		Find(&list).Error
	return
}

func (w *watchlistDao) WatchlistAdd(ctx context.Context, userId, artistId int64) error {
	return w.ds.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item entity.Watchlist
		// 包含已软删除的记录，重新添加时恢复
		err := tx.Unscoped().Where("user_id = ? AND artist_id = ?", userId, artistId).Take(&item).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Omit(clause.Associations).Create(&entity.Watchlist{UserId: userId, ArtistId: artistId}).Error
		}
		if err != nil {
			return err
		}
		if item.IsDel == 0 {
			return nil
		}
		return tx.Unscoped().Model(&entity.Watchlist{}).Where("id = ?", item.Id).
			Updates(map[string]interface{}{"is_del": 0, "deleted_at": nil}).Error
	})
}

func (w *watchlistDao) WatchlistRemove(ctx context.Context, userId, artistId int64) error {
	return w.ds.WithContext(ctx).Where("user_id = ? AND artist_id = ?", userId, artistId).Delete(&entity.Watchlist{}).Error
}
