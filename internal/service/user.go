package service

import (
	"context"

	"scrobblex/conf"
	"scrobblex/internal/dao"
	"scrobblex/internal/model"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
	"scrobblex/pkg/jwt"
)

type UserService interface {
	UserGetInfo(ctx context.Context, userId int64) (res model.UserInfo, err error)
	UserGetBalance(ctx context.Context, userId int64) (res model.UserBalanceRes, err error)
	UserLogout(ctx context.Context, tokenStr string) error
}

type userService struct {
	ud dao.UserDao
}

func NewUserService(ud dao.UserDao) *userService {
	return &userService{ud: ud}
}

func (u *userService) UserGetInfo(ctx context.Context, userId int64) (res model.UserInfo, err error) {
	user, err := u.ud.UserGetById(ctx, userId)
	if err != nil {
		if isNotFound(err) {
			return res, errors.WithCode(ecode.NotFoundErr, "user %d not found", userId)
		}
		return res, err
	}
	return model.UserInfo{
		Id:             user.Id,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		AvatarUrl:      user.AvatarUrl,
		LastfmUsername: user.LastfmUsername,
		LastfmVerified: user.LastfmVerified,
		TotalScrobbles: user.TotalScrobbles,
		IsAdmin:        user.IsAdmin,
		Balance:        user.Balance,
	}, nil
}

// 余额直接读库，交易后需要立即可见
func (u *userService) UserGetBalance(ctx context.Context, userId int64) (res model.UserBalanceRes, err error) {
	balance, err := u.ud.UserGetBalance(ctx, userId)
	if err != nil {
		if isNotFound(err) {
			return res, errors.WithCode(ecode.NotFoundErr, "user %d not found", userId)
		}
		return res, err
	}
	res.Balance = balance
	return res, nil
}

func (u *userService) UserLogout(ctx context.Context, tokenStr string) error {
	return jwt.JoinBlackList(ctx, tokenStr, conf.AppConfig.Jwt.Secret)
}
