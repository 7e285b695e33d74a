package dao

import (
	"context"

	"github.com/shopspring/decimal"
	"scrobblex/internal/model/entity"
)

type UserDao interface {
	// 根据id获取用户，不存在返回 gorm.ErrRecordNotFound
	UserGetById(ctx context.Context, userId int64) (entity.User, error)
	// 创建用户
	UserCreate(ctx context.Context, user *entity.User) error
	// 获取用户余额
	UserGetBalance(ctx context.Context, userId int64) (decimal.Decimal, error)
	// 通过 Last.fm 验证的用户，按 scrobble 数倒序
	UserGetVerified(ctx context.Context, limit int) ([]entity.User, error)
}
