package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"scrobblex/internal/model"
	"scrobblex/internal/model/entity"
	"scrobblex/internal/service"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
	"scrobblex/pkg/logger"
	"scrobblex/pkg/response"
	"scrobblex/pkg/validator"
)

// AdminHandler 管理员维护艺人目录和价格
type AdminHandler struct {
	artists service.ArtistService
}

func NewAdminHandler(as service.ArtistService) *AdminHandler {
	return &AdminHandler{artists: as}
}

// @Summary		调整艺人价格
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string						false	"Bearer 管理员令牌"
// @Param			id				path		int							true	"艺人id"
// @Param			body			body		model.ArtistPriceUpdateReq	true	"新价格和成交量"
// @Success		200				{object}	response.ApiResponse{data=entity.Artist}
// @Router			/api/v1/admin/artists/{id}/price [put]
func (handler *AdminHandler) ArtistPriceUpdate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		artistId := cast.ToInt64(ctx.Param("id"))
		if artistId <= 0 {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "invalid artist id"), nil)
			return
		}
		var req model.ArtistPriceUpdateReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}
		artist, err := handler.artists.ArtistPriceUpdate(ctx, artistId, req.Price, req.Volume)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, artist)
	}
}

// @Summary		新增艺人
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string					false	"Bearer 管理员令牌"
// @Param			body			body		model.ArtistCreateReq	true	"艺人信息"
// @Success		200				{object}	response.ApiResponse{data=entity.Artist}
// @Router			/api/v1/admin/artists [post]
func (handler *AdminHandler) ArtistCreate() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.ArtistCreateReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}
		artist := &entity.Artist{
			Symbol:          req.Symbol,
			Name:            req.Name,
			Genre:           req.Genre,
			CurrentPrice:    decimal.NewFromFloat(req.CurrentPrice),
			MarketCap:       decimal.NewFromFloat(req.MarketCap),
			TotalScrobbles:  req.TotalScrobbles,
			WeeklyScrobbles: req.WeeklyScrobbles,
			ImageUrl:        req.ImageUrl,
			LastfmUrl:       req.LastfmUrl,
		}
		if err := handler.artists.ArtistCreate(ctx, artist); err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		logger.Infof("新增艺人 %s(%d)", artist.Symbol, artist.Id)
		response.JSON(ctx, nil, artist)
	}
}
