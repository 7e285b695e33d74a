package leaderboard

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"scrobblex/internal/service"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
	"scrobblex/pkg/response"
)

type Handler struct {
	service service.LeaderboardService
}

func NewHandler(service service.LeaderboardService) *Handler {
	return &Handler{service: service}
}

// @Summary		收益排行榜
// @description	scrobble 最多的已验证用户按收益率排序
// @Produce		json
// @Param			limit	query		int	false	"条数，最大50"
// @Success		200		{object}	response.ApiResponse{data=[]model.LeaderboardItem}
// @Router			/api/v1/leaderboard [get]
func (h *Handler) LeaderboardGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		limit := cast.ToInt(ctx.Query("limit"))
		list, err := h.service.LeaderboardGet(ctx, limit)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "load leaderboard failed"), nil)
			return
		}
		response.JSON(ctx, nil, list)
	}
}
