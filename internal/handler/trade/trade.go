package trade

import (
	"strings"

	"github.com/gin-gonic/gin"
	"scrobblex/internal/consts"
	"scrobblex/internal/model"
	"scrobblex/internal/service"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
	"scrobblex/pkg/response"
	"scrobblex/pkg/validator"
)

type TradeHandler struct {
	service service.TradeService
}

func NewTradeHandler(service service.TradeService) *TradeHandler {
	return &TradeHandler{service: service}
}

// @Summary		买入或卖出艺人股份
// @description	以服务端当前价格成交，price 仅用于校验价格是否变动
// @Accept			json
// @Produce		json
// @Param			Authorization	header		string			false	"Bearer 用户令牌"
// @Param			Idempotency-Key	header		string			false	"幂等键，重复提交返回同一笔流水"
// @Param			body			body		model.TradeReq	true	"交易参数"
// @Success		200				{object}	response.ApiResponse{data=model.TradeRes}
// @Router			/api/v1/trade [post]
func (handler *TradeHandler) Trade() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.TradeReq
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}
		req.Side = strings.ToLower(req.Side)
		if req.IdempotencyKey == "" {
			req.IdempotencyKey = ctx.GetHeader(consts.IdempotencyKeyHeader)
		}

		userId := ctx.GetInt64(consts.UserID)
		meta := map[string]string{
			"ip":         ctx.ClientIP(),
			"user_agent": ctx.Request.UserAgent(),
			"request_id": ctx.GetString(consts.RequestId),
		}
		res, err := handler.service.Trade(ctx.Request.Context(), userId, req, meta)
		if err != nil {
			response.JSON(ctx, err, nil)
			return
		}
		response.JSON(ctx, nil, res)
	}
}

// @Summary		交易流水
// @description	按时间倒序分页
// @Produce		json
// @Param			Authorization	header		string	false	"Bearer 用户令牌"
// @Param			page			query		int		false	"页码，从1开始"
// @Param			limit			query		int		false	"每页条数，最大200"
// @Success		200				{object}	response.ApiResponse{data=[]model.TransactionItem}
// @Router			/api/v1/user/transactions [get]
func (handler *TradeHandler) TransactionsGet() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req model.TransactionsGetReq
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.JSON(ctx, errors.WithCode(ecode.ValidateErr, "%s", validator.Translate(err)), nil)
			return
		}
		userId := ctx.GetInt64(consts.UserID)
		list, err := handler.service.TransactionsGet(ctx, userId, req.Page, req.Limit)
		if err != nil {
			response.JSON(ctx, errors.Wrap(err, ecode.Unknown, "load transactions failed"), nil)
			return
		}
		response.JSON(ctx, nil, list)
	}
}
