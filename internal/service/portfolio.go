package service

import (
	"context"

	"github.com/shopspring/decimal"
	"scrobblex/internal/dao"
	"scrobblex/internal/ledger"
	"scrobblex/internal/model"
	"scrobblex/internal/model/entity"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
)

type PortfolioService interface {
	PortfolioGet(ctx context.Context, userId int64) (model.PortfolioRes, error)
}

type portfolioService struct {
	ud dao.UserDao
	ld dao.LedgerDao
	ad dao.ArtistDao
}

func NewPortfolioService(ud dao.UserDao, ld dao.LedgerDao, ad dao.ArtistDao) *portfolioService {
	return &portfolioService{ud: ud, ld: ld, ad: ad}
}

var hundred = decimal.NewFromInt(100)

// percentOf part/base*100，base 为 0 时返回 0
func percentOf(part, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return part.Div(base).Mul(hundred).Round(2)
}

func (p *portfolioService) PortfolioGet(ctx context.Context, userId int64) (res model.PortfolioRes, err error) {
	balance, err := p.ud.UserGetBalance(ctx, userId)
	if err != nil {
		if isNotFound(err) {
			return res, errors.WithCode(ecode.NotFoundErr, "user %d not found", userId)
		}
		return res, err
	}

	positions, err := p.ld.PositionsGetByUser(ctx, userId)
	if err != nil {
		return res, err
	}
	artists, err := p.artistsOf(ctx, positions)
	if err != nil {
		return res, err
	}

	res.Balance = balance
	res.Positions = make([]model.PortfolioPosition, 0, len(positions))
	for _, pos := range positions {
		artist, ok := artists[pos.ArtistId]
		if !ok {
			continue
		}
		item := valuePosition(pos, artist)
		res.PositionsValue = res.PositionsValue.Add(item.CurrentValue)
		res.TotalInvested = res.TotalInvested.Add(item.TotalInvested)
		res.DayGainLoss = res.DayGainLoss.Add(item.DayGainLoss)
		res.Positions = append(res.Positions, item)
	}
	res.TotalValue = res.Balance.Add(res.PositionsValue)
	res.TotalGainLoss = res.PositionsValue.Sub(res.TotalInvested)
	res.TotalGainLossPercent = percentOf(res.TotalGainLoss, res.TotalInvested)
	return res, nil
}

func (p *portfolioService) artistsOf(ctx context.Context, positions []entity.Position) (map[int64]entity.Artist, error) {
	ids := make([]int64, 0, len(positions))
	for _, pos := range positions {
		ids = append(ids, pos.ArtistId)
	}
	list, err := p.ad.ArtistGetByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := make(map[int64]entity.Artist, len(list))
	for _, a := range list {
		m[a.Id] = a
	}
	return m, nil
}

// valuePosition 按当前价格计算持仓市值和盈亏
func valuePosition(pos entity.Position, artist entity.Artist) model.PortfolioPosition {
	shares := decimal.NewFromInt(pos.Shares)
	value := shares.Mul(artist.CurrentPrice).Round(ledger.CashScale)
	gain := value.Sub(pos.TotalInvested)
	return model.PortfolioPosition{
		ArtistId:        artist.Id,
		Symbol:          artist.Symbol,
		Name:            artist.Name,
		Genre:           artist.Genre,
		ImageUrl:        artist.ImageUrl,
		Shares:          pos.Shares,
		AveragePrice:    pos.AveragePrice,
		CurrentPrice:    artist.CurrentPrice,
		CurrentValue:    value,
		TotalInvested:   pos.TotalInvested,
		GainLoss:        gain,
		GainLossPercent: percentOf(gain, pos.TotalInvested),
		DayGainLoss:     shares.Mul(artist.PriceChange).Round(ledger.CashScale),
	}
}
