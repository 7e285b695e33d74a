package service

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v8"
	json "github.com/goccy/go-json"
	"scrobblex/internal/consts"
	"scrobblex/internal/dao/query"
	"scrobblex/internal/model"
	"scrobblex/pkg/kafka"
)

func TestLeaderboardService_Ordering(t *testing.T) {
	f := newFixture(t)
	seedUser(t, f.ds, seedUserOpt{id: 1, balance: "1000", verified: true, scrobbles: 300})
	seedUser(t, f.ds, seedUserOpt{id: 2, balance: "1000", verified: true, scrobbles: 200})
	seedUser(t, f.ds, seedUserOpt{id: 3, balance: "1000", verified: false, scrobbles: 900})
	seedUser(t, f.ds, seedUserOpt{id: 4, balance: "1000", verified: true, scrobbles: 100})
	x := seedArtist(t, f.ds, "X", "X", "10")
	y := seedArtist(t, f.ds, "Y", "Y", "10")
	ctx := context.Background()

	trades := []struct {
		uid int64
		req model.TradeReq
	}{
		{1, model.TradeReq{ArtistId: y.Id, Shares: 10, Side: "buy"}},
		{2, model.TradeReq{ArtistId: x.Id, Shares: 10, Side: "buy"}},
		{3, model.TradeReq{ArtistId: x.Id, Shares: 50, Side: "buy"}},
	}
	for _, tr := range trades {
		if _, err := f.trade.Trade(ctx, tr.uid, tr.req, nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.artist.ArtistPriceUpdate(ctx, x.Id, 12, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := f.artist.ArtistPriceUpdate(ctx, y.Id, 8, 0); err != nil {
		t.Fatal(err)
	}

	svc := NewLeaderboardService(query.NewUserDao(f.ds), query.NewLedgerDao(f.ds), query.NewArtistDao(f.ds), nil, f.metrics)
	list, err := svc.LeaderboardGet(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	// 未验证的用户不上榜
	if len(list) != 3 {
		t.Fatalf("leaderboard size = %d, want 3: %+v", len(list), list)
	}
	wantOrder := []int64{2, 4, 1}
	for i, id := range wantOrder {
		if list[i].UserId != id || list[i].Rank != i+1 {
			t.Errorf("rank %d = user %d (rank field %d), want user %d", i+1, list[i].UserId, list[i].Rank, id)
		}
	}
	assertDecimal(t, "top return", list[0].TotalReturn, "20")
	assertDecimal(t, "top return percent", list[0].TotalReturnPercent, "20")
	assertDecimal(t, "top portfolio value", list[0].PortfolioValue, "1020")
	assertDecimal(t, "last return percent", list[2].TotalReturnPercent, "-20")

	top, err := svc.LeaderboardGet(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 1 || top[0].UserId != 2 {
		t.Errorf("limit 1 = %+v", top)
	}
}

func TestLeaderboardService_Cache(t *testing.T) {
	f := newFixture(t)
	rc, mock := redismock.NewClientMock()
	svc := NewLeaderboardService(query.NewUserDao(f.ds), query.NewLedgerDao(f.ds), query.NewArtistDao(f.ds), rc, f.metrics)
	ctx := context.Background()

	cached := []model.LeaderboardItem{{Rank: 1, UserId: 7, Username: "cached"}}
	data, err := json.Marshal(cached)
	if err != nil {
		t.Fatal(err)
	}
	mock.ExpectGet(consts.LeaderboardCacheKey).SetVal(string(data))
	mock.ExpectDel(consts.LeaderboardCacheKey).SetVal(1)

	list, err := svc.LeaderboardGet(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Username != "cached" {
		t.Fatalf("list = %+v", list)
	}
	if err := svc.OnTrade(ctx, kafka.TradeEvent{TransactionId: 1, UserId: 7}); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
