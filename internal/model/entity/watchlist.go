package entity

import (
	"gorm.io/plugin/soft_delete"
	"scrobblex/utils"
)

type Watchlist struct {
	Id        int64                 `gorm:"column:id;primary_key" json:"id"`
	UserId    int64                 `gorm:"column:user_id;not null;uniqueIndex:idx_watch_user_artist,priority:1" json:"user_id"`
	ArtistId  int64                 `gorm:"column:artist_id;not null;uniqueIndex:idx_watch_user_artist,priority:2" json:"artist_id"`
	Artist    Artist                `gorm:"foreignKey:ArtistId;references:Id" json:"artist"`
	CreatedAt utils.JsonTime        `gorm:"column:created_at" json:"created_at"`
	DeletedAt utils.JsonTime        `gorm:"column:deleted_at" json:"-"`
	IsDel     soft_delete.DeletedAt `gorm:"softDelete:flag,DeletedAtField:DeletedAt" json:"-"`
}

func (Watchlist) TableName() string {
	return "watchlist"
}
