package query

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"scrobblex/internal/dao"
	"scrobblex/internal/model/entity"
)

var _ dao.UserDao = (*userDao)(nil)

type userDao struct {
	ds *gorm.DB
}

func NewUserDao(ds *gorm.DB) *userDao {
	return &userDao{
		ds: ds,
	}
}

func (u *userDao) UserGetById(ctx context.Context, userId int64) (user entity.User, err error) {
	err = u.ds.WithContext(ctx).Where("id = ?", userId).Take(&user).Error
	return
}

func (u *userDao) UserCreate(ctx context.Context, user *entity.User) error {
	if user == nil {
		return gorm.ErrInvalidData
	}
	return u.ds.WithContext(ctx).Create(user).Error
}

func (u *userDao) UserGetBalance(ctx context.Context, userId int64) (decimal.Decimal, error) {
	var user entity.User
	err := u.ds.WithContext(ctx).Select("id", "balance").Where("id = ?", userId).Take(&user).Error
	return user.Balance, err
}

func (u *userDao) UserGetVerified(ctx context.Context, limit int) (list []entity.User, err error) {
	err = u.ds.WithContext(ctx).
		Where("lastfm_verified = ?", true).
		Order("total_scrobbles DESC").
		Order("id").
		Limit(limit).
		Find(&list).Error
	return
}
