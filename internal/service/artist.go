package service

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"scrobblex/internal/consts"
	"scrobblex/internal/dao"
	"scrobblex/internal/ledger"
	"scrobblex/internal/model"
	"scrobblex/internal/model/entity"
	"scrobblex/pkg/cache"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
	"scrobblex/pkg/logger"
	"scrobblex/pkg/metrics"
	"scrobblex/utils"
	"scrobblex/utils/uuid"
)

type ArtistService interface {
	ArtistGetList(ctx context.Context) ([]entity.Artist, error)
	ArtistGetBySymbol(ctx context.Context, symbol string) (entity.Artist, error)
	ArtistCreate(ctx context.Context, artist *entity.Artist) error
	// 管理员调价，记录涨跌幅和价格历史
	ArtistPriceUpdate(ctx context.Context, artistId int64, price float64, volume int64) (entity.Artist, error)
	ArtistPriceHistoryGet(ctx context.Context, symbol string, days int) (model.PriceHistoryRes, error)
}

type artistService struct {
	ad      dao.ArtistDao
	rc      *redis.Client // 为 nil 时不使用缓存
	metrics *metrics.Registry
	iSrv    *uuid.SnowNode
	now     func() time.Time
}

func NewArtistService(ad dao.ArtistDao, rc *redis.Client, m *metrics.Registry) *artistService {
	return &artistService{
		ad:      ad,
		rc:      rc,
		metrics: m,
		iSrv:    uuid.NewNode(2),
		now:     time.Now,
	}
}

func (a *artistService) ArtistGetList(ctx context.Context) ([]entity.Artist, error) {
	var list []entity.Artist
	if a.rc != nil {
		hit, err := cache.GetJSON(ctx, a.rc, consts.ArtistListCacheKey, &list)
		if err != nil {
			logger.Errorf("Redis连接异常:%v", err)
		}
		if hit {
			a.metrics.CacheHit("artists")
			return list, nil
		}
		a.metrics.CacheMiss("artists")
	}

	list, err := a.ad.ArtistGetList(ctx)
	if err != nil {
		return nil, err
	}
	if a.rc != nil {
		if err := cache.SetJSON(ctx, a.rc, consts.ArtistListCacheKey, list, consts.ArtistListCacheTTL); err != nil {
			logger.Errorf("艺人列表缓存失败:%v", err)
		}
	}
	return list, nil
}

func (a *artistService) ArtistGetBySymbol(ctx context.Context, symbol string) (entity.Artist, error) {
	artist, err := a.ad.ArtistGetBySymbol(ctx, utils.NormalizeSymbol(symbol))
	if isNotFound(err) {
		return artist, errors.WithCode(ecode.ArtistNotFoundErr, "artist %s not found", symbol)
	}
	return artist, err
}

func (a *artistService) ArtistCreate(ctx context.Context, artist *entity.Artist) error {
	artist.Symbol = utils.NormalizeSymbol(artist.Symbol)
	// 目录价格按分保存，与成交价一致
	artist.CurrentPrice = artist.CurrentPrice.Round(ledger.CashScale)
	if artist.Symbol == "" || artist.Name == "" || !artist.CurrentPrice.IsPositive() {
		return errors.WithCode(ecode.ValidateErr, "symbol, name and a price of at least 0.01 are required")
	}
	if err := a.ad.ArtistCreate(ctx, artist); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.WithCode(ecode.ConflictErr, "artist %s already exists", artist.Symbol)
		}
		return err
	}
	a.dropListCache(ctx)
	return nil
}

func (a *artistService) ArtistPriceUpdate(ctx context.Context, artistId int64, price float64, volume int64) (entity.Artist, error) {
	newPrice, err := ledger.PriceFromFloat(price)
	newPrice = newPrice.Round(ledger.CashScale)
	if err != nil || !newPrice.IsPositive() {
		return entity.Artist{}, errors.WithCode(ecode.ValidateErr, "price must be at least 0.01")
	}

	artist, err := a.ad.ArtistGetById(ctx, artistId)
	if err != nil {
		if isNotFound(err) {
			return artist, errors.WithCode(ecode.ArtistNotFoundErr, "artist %d not found", artistId)
		}
		return artist, err
	}

	// 涨跌额和涨跌幅相对上一次价格
	prev := artist.CurrentPrice
	artist.CurrentPrice = newPrice
	artist.PriceChange = artist.CurrentPrice.Sub(prev)
	artist.PriceChangePercent = decimal.Zero
	if prev.IsPositive() {
		artist.PriceChangePercent = artist.PriceChange.Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
	}
	artist.Volume = volume

	history := &entity.PriceHistory{
		Id:         a.iSrv.GenSnowID(),
		ArtistId:   artist.Id,
		Price:      artist.CurrentPrice,
		Volume:     volume,
		RecordedAt: a.now().UTC(),
	}
	if err := a.ad.ArtistPriceUpdate(ctx, &artist, history); err != nil {
		return artist, err
	}
	logger.Infof("艺人 %s 价格更新 %s -> %s", artist.Symbol, prev, artist.CurrentPrice)
	a.dropListCache(ctx)
	return artist, nil
}

func (a *artistService) ArtistPriceHistoryGet(ctx context.Context, symbol string, days int) (res model.PriceHistoryRes, err error) {
	if days <= 0 {
		days = consts.DefaultHistoryDays
	}
	if days > consts.MaxHistoryDays {
		days = consts.MaxHistoryDays
	}
	artist, err := a.ArtistGetBySymbol(ctx, symbol)
	if err != nil {
		return res, err
	}

	since := a.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	rows, err := a.ad.PriceHistoryGet(ctx, artist.Id, since)
	if err != nil {
		return res, err
	}
	res.Symbol = artist.Symbol
	res.Days = days
	res.History = make([]model.PriceHistoryItem, 0, len(rows))
	for _, r := range rows {
		res.History = append(res.History, model.PriceHistoryItem{Price: r.Price, Volume: r.Volume, RecordedAt: r.RecordedAt})
	}
	return res, nil
}

func (a *artistService) dropListCache(ctx context.Context) {
	if a.rc == nil {
		return
	}
	if err := a.rc.Del(ctx, consts.ArtistListCacheKey).Err(); err != nil {
		logger.Errorf("删除艺人列表缓存失败:%v", err)
	}
}
