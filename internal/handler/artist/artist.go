package artist

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"scrobblex/internal/service"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
	"scrobblex/pkg/response"
)

type ArtistHandler struct {
	service service.ArtistService
}

func NewArtistHandler(service service.ArtistService) *ArtistHandler {
	return &ArtistHandler{service: service}
}

// @Summary		艺人列表
// @description	全部可交易艺人，按市值倒序
// @Produce		json
// @Success		200	{object}	response.ApiResponse{data=[]entity.Artist}
// @Router			/api/v1/artists [get]
func (handler *ArtistHandler) ArtistGetList() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		list, err := handler.service.ArtistGetList(ctx)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "load artists failed"), nil)
			return
		}
		response.JSON(ctx, nil, list)
	}
}

// @Summary		艺人详情
// @Produce		json
// @Param			symbol	path		string	true	"艺人代码"
// @Success		200		{object}	response.ApiResponse{data=entity.Artist}
// @Router			/api/v1/artists/{symbol} [get]
func (handler *ArtistHandler) ArtistGetBySymbol() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		artist, err := handler.service.ArtistGetBySymbol(ctx, ctx.Param("symbol"))
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, artist)
	}
}

// @Summary		价格历史
// @Produce		json
// @Param			symbol	path		string	true	"艺人代码"
// @Param			days	query		int		false	"最近天数，默认30，最大365"
// @Success		200		{object}	response.ApiResponse{data=model.PriceHistoryRes}
// @Router			/api/v1/artists/{symbol}/history [get]
func (handler *ArtistHandler) PriceHistoryGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		days := cast.ToInt(ctx.Query("days"))
		res, err := handler.service.ArtistPriceHistoryGet(ctx, ctx.Param("symbol"), days)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}
