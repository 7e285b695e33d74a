package user

import (
	"github.com/gin-gonic/gin"
	"scrobblex/internal/consts"
	"scrobblex/internal/model"
	"scrobblex/internal/service"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
	"scrobblex/pkg/logger"
	"scrobblex/pkg/response"
	"scrobblex/pkg/validator"
)

type UserHandler struct {
	service   service.UserService
	portfolio service.PortfolioService
	watchlist service.WatchlistService
}

func NewUserHandler(service service.UserService, ps service.PortfolioService, ws service.WatchlistService) *UserHandler {
	return &UserHandler{service: service, portfolio: ps, watchlist: ws}
}

// @Summary		获取用户详情
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.UserInfo}
// @Router			/api/v1/user/info [get]
func (handler *UserHandler) UserGetInfo() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.UserGetInfo(ctx, userId)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		获取用户余额
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.UserBalanceRes}
// @Router			/api/v1/user/balance [get]
func (handler *UserHandler) UserGetBalance() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.service.UserGetBalance(ctx, userId)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		退出登录
// @description	token 加入黑名单直到过期
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.UserLogoutRes}
// @Router			/api/v1/user/logout [get]
func (handler *UserHandler) UserLogout() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := ctx.GetString(consts.JWTTokenCtx)
		if err := handler.service.UserLogout(ctx, token); err != nil {
			logger.Errorf("user logout: %v", err)
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "logout failed"), model.UserLogoutRes{IsSuccess: false})
			return
		}
		response.JSON(ctx, nil, model.UserLogoutRes{IsSuccess: true})
	}
}

// @Summary		持仓汇总
// @description	按当前价格计算持仓市值、盈亏和当日盈亏
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=model.PortfolioRes}
// @Router			/api/v1/user/portfolio [get]
func (handler *UserHandler) PortfolioGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		res, err := handler.portfolio.PortfolioGet(ctx, userId)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		自选列表
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Success		200				{object}	response.ApiResponse{data=[]entity.Artist}
// @Router			/api/v1/user/watchlist [get]
func (handler *UserHandler) WatchlistGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userId := ctx.GetInt64(consts.UserID)
		list, err := handler.watchlist.WatchlistGet(ctx, userId)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "load watchlist failed"), nil)
			return
		}
		response.JSON(ctx, nil, list)
	}
}

// @Summary		添加自选
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string				false	"Bearer 用户令牌"
// @Param			body			body		model.WatchlistReq	true	"艺人id"
// @Success		200				{object}	response.ApiResponse
// @Router			/api/v1/user/watchlist [post]
func (handler *UserHandler) WatchlistAdd() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.WatchlistReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		if err := handler.watchlist.WatchlistAdd(ctx, userId, req.ArtistId); err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, nil)
	}
}

// @Summary		移除自选
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string				false	"Bearer 用户令牌"
// @Param			body			body		model.WatchlistReq	true	"艺人id"
// @Success		200				{object}	response.ApiResponse
// @Router			/api/v1/user/watchlist [delete]
func (handler *UserHandler) WatchlistRemove() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.WatchlistReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		if err := handler.watchlist.WatchlistRemove(ctx, userId, req.ArtistId); err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "remove watchlist failed"), nil)
			return
		}
		response.JSON(ctx, nil, nil)
	}
}
