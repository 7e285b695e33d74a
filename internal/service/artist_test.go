package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"scrobblex/internal/consts"
	"scrobblex/internal/dao/query"
	"scrobblex/internal/model/entity"
	"scrobblex/pkg/errors/ecode"
)

func TestArtistService_PriceUpdateAndHistory(t *testing.T) {
	f := newFixture(t)
	artist := seedArtist(t, f.ds, "TSWIFT", "Taylor Swift", "100")
	ctx := context.Background()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.artist.now = func() time.Time { return now }

	updated, err := f.artist.ArtistPriceUpdate(ctx, artist.Id, 110, 500)
	if err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "price", updated.CurrentPrice, "110")
	assertDecimal(t, "change", updated.PriceChange, "10")
	assertDecimal(t, "change percent", updated.PriceChangePercent, "10")

	now = now.Add(time.Hour)
	if _, err := f.artist.ArtistPriceUpdate(ctx, artist.Id, 99, 100); err != nil {
		t.Fatal(err)
	}

	got, err := f.artist.ArtistGetBySymbol(ctx, " tswift ")
	if err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "stored change percent", got.PriceChangePercent, "-10")

	res, err := f.artist.ArtistPriceHistoryGet(ctx, "TSWIFT", 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.Days != consts.DefaultHistoryDays || len(res.History) != 2 {
		t.Fatalf("history = %+v", res)
	}
	assertDecimal(t, "oldest", res.History[0].Price, "110")
	assertDecimal(t, "latest", res.History[1].Price, "99")

	if res, _ := f.artist.ArtistPriceHistoryGet(ctx, "TSWIFT", 10000); res.Days != consts.MaxHistoryDays {
		t.Errorf("days = %d, want clamp to %d", res.Days, consts.MaxHistoryDays)
	}
}

func TestArtistService_Errors(t *testing.T) {
	f := newFixture(t)
	seedArtist(t, f.ds, "DUP", "Dup", "1")
	ctx := context.Background()

	_, err := f.artist.ArtistPriceUpdate(ctx, 999, 10, 0)
	assertCode(t, err, ecode.ArtistNotFoundErr)

	_, err = f.artist.ArtistPriceUpdate(ctx, 1, -1, 0)
	assertCode(t, err, ecode.ValidateErr)

	_, err = f.artist.ArtistGetBySymbol(ctx, "NOPE")
	assertCode(t, err, ecode.ArtistNotFoundErr)

	err = f.artist.ArtistCreate(ctx, &entity.Artist{Symbol: "dup", Name: "Again", CurrentPrice: decimal.NewFromInt(2)})
	assertCode(t, err, ecode.ConflictErr)

	err = f.artist.ArtistCreate(ctx, &entity.Artist{Symbol: "NEW", Name: ""})
	assertCode(t, err, ecode.ValidateErr)

	// 不足一分的价格无法成交，目录里也不接受
	_, err = f.artist.ArtistPriceUpdate(ctx, 1, 0.004, 0)
	assertCode(t, err, ecode.ValidateErr)
	err = f.artist.ArtistCreate(ctx, &entity.Artist{Symbol: "PENNY", Name: "Penny", CurrentPrice: decimal.RequireFromString("0.004")})
	assertCode(t, err, ecode.ValidateErr)
}

func TestArtistService_PriceRoundedToCents(t *testing.T) {
	f := newFixture(t)
	artist := seedArtist(t, f.ds, "SZA", "SZA", "10")
	ctx := context.Background()

	updated, err := f.artist.ArtistPriceUpdate(ctx, artist.Id, 12.3456, 0)
	if err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "price", updated.CurrentPrice, "12.35")

	created := &entity.Artist{Symbol: "cent", Name: "Cent", CurrentPrice: decimal.RequireFromString("0.006")}
	if err := f.artist.ArtistCreate(ctx, created); err != nil {
		t.Fatal(err)
	}
	assertDecimal(t, "created price", created.CurrentPrice, "0.01")
}

func TestArtistService_ListCache(t *testing.T) {
	f := newFixture(t)
	seedArtist(t, f.ds, "A", "A", "1")
	rc, mock := redismock.NewClientMock()
	svc := NewArtistService(query.NewArtistDao(f.ds), rc, f.metrics)
	ctx := context.Background()

	// 未命中时查库并回写缓存
	list, err := query.NewArtistDao(f.ds).ArtistGetList(ctx)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(list)
	if err != nil {
		t.Fatal(err)
	}
	mock.ExpectGet(consts.ArtistListCacheKey).RedisNil()
	mock.ExpectSet(consts.ArtistListCacheKey, data, consts.ArtistListCacheTTL).SetVal("OK")
	if _, err := svc.ArtistGetList(ctx); err != nil {
		t.Fatal(err)
	}

	mock.ExpectGet(consts.ArtistListCacheKey).SetVal(string(data))
	got, err := svc.ArtistGetList(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Symbol != "A" {
		t.Fatalf("cached list = %+v", got)
	}

	// 新增艺人后删除列表缓存
	mock.ExpectDel(consts.ArtistListCacheKey).SetVal(1)
	if err := svc.ArtistCreate(ctx, &entity.Artist{Symbol: "b", Name: "B", CurrentPrice: decimal.NewFromInt(3)}); err != nil {
		t.Fatal(err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
	if hit := testutil.ToFloat64(f.metrics.CacheRequests.WithLabelValues("artists", "hit")); hit != 1 {
		t.Errorf("cache hits = %v", hit)
	}
	if miss := testutil.ToFloat64(f.metrics.CacheRequests.WithLabelValues("artists", "miss")); miss != 1 {
		t.Errorf("cache misses = %v", miss)
	}
}
