package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/plugin/soft_delete"
	"scrobblex/utils"
)

type User struct {
	Id             int64                 `gorm:"column:id;primary_key;autoIncrement:false" json:"id"`
	Username       string                `gorm:"column:username;size:64;not null;unique" json:"username"` // unique 用户名唯一且不能为空
	DisplayName    string                `gorm:"column:display_name;size:128" json:"display_name"`
	Email          string                `gorm:"column:email;size:128" json:"email"`
	AvatarUrl      string                `gorm:"column:avatar_url" json:"avatar_url"`
	LastfmUsername string                `gorm:"column:lastfm_username;size:64;index" json:"lastfm_username"`
	LastfmVerified bool                  `gorm:"column:lastfm_verified;default:false" json:"lastfm_verified"` // 通过 Last.fm 验证的用户才能上排行榜
	TotalScrobbles int64                 `gorm:"column:total_scrobbles;default:0" json:"total_scrobbles"`
	IsAdmin        bool                  `gorm:"column:is_admin;default:false" json:"is_admin"`
	Balance        decimal.Decimal       `gorm:"column:balance;type:decimal(20,2);not null;default:0" json:"balance"` // 现金余额，不允许为负
	Version        int64                 `gorm:"column:version;not null;default:0" json:"-"`                          // 乐观锁版本号
	CreatedAt      utils.JsonTime        `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      utils.JsonTime        `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt      utils.JsonTime        `gorm:"column:deleted_at" json:"-"`
	IsDel          soft_delete.DeletedAt `gorm:"softDelete:flag,DeletedAtField:DeletedAt" json:"-"`
}

func (User) TableName() string {
	return "user"
}
