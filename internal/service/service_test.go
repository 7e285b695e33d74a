package service

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"scrobblex/conf"
	"scrobblex/internal/dao/query"
	"scrobblex/internal/ledger"
	"scrobblex/internal/model/entity"
	"scrobblex/pkg/db"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/kafka"
	"scrobblex/pkg/metrics"
)

var testTradeConfig = conf.TradeConfig{
	MaxRetries:        3,
	RetryBackoff:      time.Millisecond,
	MaxPriceDeviation: 0.05,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ds, err := db.Open(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := ds.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := query.AutoMigrate(ds); err != nil {
		t.Fatal(err)
	}
	return ds
}

type seedUserOpt struct {
	id        int64
	balance   string
	verified  bool
	scrobbles int64
}

func seedUser(t *testing.T, ds *gorm.DB, o seedUserOpt) {
	t.Helper()
	u := &entity.User{
		Id:             o.id,
		Username:       "listener" + strconv.FormatInt(o.id, 10),
		DisplayName:    "Listener",
		Balance:        decimal.RequireFromString(o.balance),
		LastfmVerified: o.verified,
		TotalScrobbles: o.scrobbles,
	}
	if err := query.NewUserDao(ds).UserCreate(context.Background(), u); err != nil {
		t.Fatal(err)
	}
}

func seedArtist(t *testing.T, ds *gorm.DB, symbol, name, price string) entity.Artist {
	t.Helper()
	a := entity.Artist{
		Symbol:       symbol,
		Name:         name,
		Genre:        "pop",
		CurrentPrice: decimal.RequireFromString(price),
		MarketCap:    decimal.NewFromInt(1000000),
	}
	if err := query.NewArtistDao(ds).ArtistCreate(context.Background(), &a); err != nil {
		t.Fatal(err)
	}
	return a
}

type fakeProducer struct {
	events chan kafka.TradeEvent
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{events: make(chan kafka.TradeEvent, 16)}
}

func (f *fakeProducer) PublishTrade(_ context.Context, ev kafka.TradeEvent) error {
	f.events <- ev
	return nil
}

func (f *fakeProducer) Close() error { return nil }

// conflictStore 前 n 次更新账户返回版本冲突
type conflictStore struct {
	ledger.Store
	remaining int32
}

func (s *conflictStore) Atomic(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return s.Store.Atomic(ctx, func(tx ledger.Tx) error {
		return fn(&conflictTx{Tx: tx, s: s})
	})
}

type conflictTx struct {
	ledger.Tx
	s *conflictStore
}

func (c *conflictTx) UpdateAccount(ctx context.Context, a *ledger.Account) error {
	if atomic.AddInt32(&c.s.remaining, -1) >= 0 {
		return ledger.ErrStorageConflict
	}
	return c.Tx.UpdateAccount(ctx, a)
}

type fixture struct {
	ds        *gorm.DB
	metrics   *metrics.Registry
	producer  *fakeProducer
	trade     *tradeService
	artist    *artistService
	portfolio *portfolioService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ds := newTestDB(t)
	m := metrics.NewRegistry()
	p := newFakeProducer()
	ad := query.NewArtistDao(ds)
	ld := query.NewLedgerDao(ds)
	return &fixture{
		ds:        ds,
		metrics:   m,
		producer:  p,
		trade:     NewTradeService(ld, ledger.NewLocalLocker(), ad, p, m, testTradeConfig),
		artist:    NewArtistService(ad, nil, m),
		portfolio: NewPortfolioService(query.NewUserDao(ds), ld, ad),
	}
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code %d, got nil", code)
	}
	if got := errors.Code(err); got != code {
		t.Fatalf("error code = %d, want %d (%v)", got, code, err)
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
