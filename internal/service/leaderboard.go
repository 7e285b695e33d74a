package service

import (
	"context"
	"sort"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"scrobblex/internal/consts"
	"scrobblex/internal/dao"
	"scrobblex/internal/ledger"
	"scrobblex/internal/model"
	"scrobblex/internal/model/entity"
	"scrobblex/pkg/cache"
	"scrobblex/pkg/kafka"
	"scrobblex/pkg/logger"
	"scrobblex/pkg/metrics"
)

type LeaderboardService interface {
	LeaderboardGet(ctx context.Context, limit int) ([]model.LeaderboardItem, error)
	// OnTrade 成交后让排行榜缓存失效，由 kafka 消费者调用
	OnTrade(ctx context.Context, ev kafka.TradeEvent) error
}

type leaderboardService struct {
	ud      dao.UserDao
	ld      dao.LedgerDao
	ad      dao.ArtistDao
	rc      *redis.Client
	metrics *metrics.Registry
}

func NewLeaderboardService(ud dao.UserDao, ld dao.LedgerDao, ad dao.ArtistDao, rc *redis.Client, m *metrics.Registry) *leaderboardService {
	return &leaderboardService{ud: ud, ld: ld, ad: ad, rc: rc, metrics: m}
}

func (l *leaderboardService) LeaderboardGet(ctx context.Context, limit int) ([]model.LeaderboardItem, error) {
	if limit <= 0 || limit > consts.LeaderboardSize {
		limit = consts.LeaderboardSize
	}
	list, err := l.cached(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// cached 缓存里只保存完整榜单，不同 limit 截取使用
func (l *leaderboardService) cached(ctx context.Context) ([]model.LeaderboardItem, error) {
	var list []model.LeaderboardItem
	if l.rc != nil {
		hit, err := cache.GetJSON(ctx, l.rc, consts.LeaderboardCacheKey, &list)
		if err != nil {
			logger.Errorf("Redis连接异常:%v", err)
		}
		if hit {
			l.metrics.CacheHit("leaderboard")
			return list, nil
		}
		l.metrics.CacheMiss("leaderboard")
	}

	list, err := l.compute(ctx, consts.LeaderboardSize)
	if err != nil {
		return nil, err
	}
	if l.rc != nil {
		if err := cache.SetJSON(ctx, l.rc, consts.LeaderboardCacheKey, list, consts.LeaderboardCacheTTL); err != nil {
			logger.Errorf("排行榜缓存失败:%v", err)
		}
	}
	return list, nil
}

// compute 取 scrobble 最多的已验证用户，按收益率排序
func (l *leaderboardService) compute(ctx context.Context, limit int) ([]model.LeaderboardItem, error) {
	users, err := l.ud.UserGetVerified(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return []model.LeaderboardItem{}, nil
	}

	userIds := make([]int64, 0, len(users))
	for _, u := range users {
		userIds = append(userIds, u.Id)
	}
	positions, err := l.ld.PositionsGetByUsers(ctx, userIds)
	if err != nil {
		return nil, err
	}

	artistIds := make([]int64, 0)
	seen := make(map[int64]bool)
	byUser := make(map[int64][]entity.Position)
	for _, p := range positions {
		byUser[p.UserId] = append(byUser[p.UserId], p)
		if !seen[p.ArtistId] {
			seen[p.ArtistId] = true
			artistIds = append(artistIds, p.ArtistId)
		}
	}
	artists, err := l.ad.ArtistGetByIds(ctx, artistIds)
	if err != nil {
		return nil, err
	}
	prices := make(map[int64]decimal.Decimal, len(artists))
	for _, a := range artists {
		prices[a.Id] = a.CurrentPrice
	}

	list := make([]model.LeaderboardItem, 0, len(users))
	for _, u := range users {
		value, invested := decimal.Zero, decimal.Zero
		for _, p := range byUser[u.Id] {
			value = value.Add(decimal.NewFromInt(p.Shares).Mul(prices[p.ArtistId]))
			invested = invested.Add(p.TotalInvested)
		}
		value = value.Round(ledger.CashScale)
		ret := value.Sub(invested)
		list = append(list, model.LeaderboardItem{
			UserId:             u.Id,
			Username:           u.Username,
			DisplayName:        u.DisplayName,
			AvatarUrl:          u.AvatarUrl,
			TotalScrobbles:     u.TotalScrobbles,
			PortfolioValue:     u.Balance.Add(value),
			TotalReturn:        ret,
			TotalReturnPercent: percentOf(ret, invested),
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].TotalReturnPercent.Equal(list[j].TotalReturnPercent) {
			return list[i].TotalReturnPercent.GreaterThan(list[j].TotalReturnPercent)
		}
		return list[i].PortfolioValue.GreaterThan(list[j].PortfolioValue)
	})
	for i := range list {
		list[i].Rank = i + 1
	}
	return list, nil
}

func (l *leaderboardService) OnTrade(ctx context.Context, ev kafka.TradeEvent) error {
	if l.rc == nil {
		return nil
	}
	logger.Debugf("trade %d by user %d, drop leaderboard cache", ev.TransactionId, ev.UserId)
	return l.rc.Del(ctx, consts.LeaderboardCacheKey).Err()
}
