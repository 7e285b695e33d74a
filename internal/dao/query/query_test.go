package query

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"scrobblex/internal/ledger"
	"scrobblex/internal/model/entity"
	"scrobblex/pkg/db"
)

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
	// sqlite 内存库每个连接是独立的库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := AutoMigrate(ds); err != nil {
		t.Fatal(err)
	}
	return ds
}

func seedUser(t *testing.T, ds *gorm.DB, id int64, balance string) {
	t.Helper()
	u := &entity.User{Id: id, Username: "user" + strconv.FormatInt(id, 10), Balance: decimal.RequireFromString(balance)}
	if err := NewUserDao(ds).UserCreate(context.Background(), u); err != nil {
		t.Fatal(err)
	}
}

func seedArtist(t *testing.T, ds *gorm.DB, symbol, price, marketCap string) entity.Artist {
	t.Helper()
	a := entity.Artist{
		Symbol:       symbol,
		Name:         symbol,
		CurrentPrice: decimal.RequireFromString(price),
		MarketCap:    decimal.RequireFromString(marketCap),
	}
	if err := NewArtistDao(ds).ArtistCreate(context.Background(), &a); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestLedgerDao_Scenario(t *testing.T) {
	ds := newTestDB(t)
	seedUser(t, ds, 1001, "10000")
	artist := seedArtist(t, ds, "TSWIFT", "20", "1000")

	store := NewLedgerDao(ds)
	var seq int64
	e := ledger.NewEngine(store, nil, ledger.WithIDGenerator(func() int64 { seq++; return seq }))
	ctx := context.Background()

	steps := []struct {
		side   ledger.Side
		shares int64
		price  string
	}{
		{ledger.Buy, 10, "20"},
		{ledger.Buy, 10, "30"},
		{ledger.Sell, 5, "40"},
		{ledger.Sell, 15, "10"},
	}
	for _, s := range steps {
		_, err := e.ExecuteTrade(ctx, ledger.TradeRequest{
			UserID: 1001, InstrumentID: artist.Id, Side: s.side, ShareCount: s.shares, Price: decimal.RequireFromString(s.price),
		})
		if err != nil {
			t.Fatalf("%s %d@%s: %v", s.side, s.shares, s.price, err)
		}
	}

	balance, err := NewUserDao(ds).UserGetBalance(ctx, 1001)
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(decimal.NewFromInt(9850)) {
		t.Errorf("balance = %s, want 9850", balance)
	}
	positions, err := store.PositionsGetByUser(ctx, 1001)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 0 {
		t.Errorf("positions = %+v, want none after full liquidation", positions)
	}

	txns, err := store.ListTransactionsForUser(ctx, 1001, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(txns) != 4 {
		t.Fatalf("transactions = %d, want 4", len(txns))
	}
	if txns[0].Side != ledger.Sell || txns[0].ShareCount != 15 {
		t.Errorf("newest transaction = %+v, want sell 15", txns[0])
	}

	page2, err := store.ListTransactionsForUser(ctx, 1001, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(page2) != 1 || page2[0].ShareCount != 10 || page2[0].Side != ledger.Buy {
		t.Errorf("page 2 = %+v, want the first buy", page2)
	}
}

func TestLedgerDao_PositionUpsert(t *testing.T) {
	ds := newTestDB(t)
	seedUser(t, ds, 1, "1000")
	store := NewLedgerDao(ds)
	ctx := context.Background()

	err := store.Atomic(ctx, func(tx ledger.Tx) error {
		if err := tx.UpsertPosition(ctx, &ledger.Position{UserID: 1, InstrumentID: 7, ShareCount: 3, AverageCost: decimal.NewFromInt(10), TotalInvested: decimal.NewFromInt(30)}); err != nil {
			return err
		}
		return tx.UpsertPosition(ctx, &ledger.Position{UserID: 1, InstrumentID: 7, ShareCount: 7, AverageCost: decimal.RequireFromString("10.571429"), TotalInvested: decimal.NewFromInt(74)})
	})
	if err != nil {
		t.Fatal(err)
	}

	positions, err := store.PositionsGetByUser(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 1 {
		t.Fatalf("positions = %d, want 1 row per user and artist", len(positions))
	}
	p := positions[0]
	if p.Shares != 7 || !p.AveragePrice.Equal(decimal.RequireFromString("10.571429")) || !p.TotalInvested.Equal(decimal.NewFromInt(74)) {
		t.Errorf("position = %+v", p)
	}
}

func TestLedgerDao_VersionConflict(t *testing.T) {
	ds := newTestDB(t)
	seedUser(t, ds, 1, "1000")
	store := NewLedgerDao(ds)
	ctx := context.Background()

	err := store.Atomic(ctx, func(tx ledger.Tx) error {
		account, err := tx.GetAccount(ctx, 1)
		if err != nil {
			return err
		}
		stale := *account
		account.CashBalance = decimal.NewFromInt(900)
		if err := tx.UpdateAccount(ctx, account); err != nil {
			return err
		}
		if account.Version != stale.Version+1 {
			t.Errorf("version = %d, want %d", account.Version, stale.Version+1)
		}
		return tx.UpdateAccount(ctx, &stale)
	})
	if !errors.Is(err, ledger.ErrStorageConflict) {
		t.Fatalf("err = %v, want ErrStorageConflict", err)
	}

	// 整个事务回滚
	balance, err := NewUserDao(ds).UserGetBalance(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !balance.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("balance = %s, want 1000 after rollback", balance)
	}
}

func TestLedgerDao_IdempotencyKey(t *testing.T) {
	ds := newTestDB(t)
	seedUser(t, ds, 1, "1000")
	store := NewLedgerDao(ds)
	ctx := context.Background()

	txn := &ledger.Transaction{
		ID: 1, UserID: 1, InstrumentID: 7, Side: ledger.Buy, ShareCount: 1,
		Price: decimal.NewFromInt(10), Total: decimal.NewFromInt(10),
		IdempotencyKey: "k-1", Timestamp: time.Now().UTC(),
		Metadata: map[string]string{"request_id": "abc"},
	}
	if err := store.Atomic(ctx, func(tx ledger.Tx) error { return tx.AppendTransaction(ctx, txn) }); err != nil {
		t.Fatal(err)
	}

	dup := *txn
	dup.ID = 2
	err := store.Atomic(ctx, func(tx ledger.Tx) error { return tx.AppendTransaction(ctx, &dup) })
	if !errors.Is(err, ledger.ErrStorageConflict) {
		t.Fatalf("err = %v, want ErrStorageConflict", err)
	}

	// 没有幂等键的流水互不冲突
	for id := int64(3); id <= 4; id++ {
		plain := *txn
		plain.ID = id
		plain.IdempotencyKey = ""
		if err := store.Atomic(ctx, func(tx ledger.Tx) error { return tx.AppendTransaction(ctx, &plain) }); err != nil {
			t.Fatalf("append without key: %v", err)
		}
	}

	err = store.Atomic(ctx, func(tx ledger.Tx) error {
		found, err := tx.FindTransactionByKey(ctx, 1, "k-1")
		if err != nil {
			return err
		}
		if found.ID != 1 || found.Metadata["request_id"] != "abc" {
			t.Errorf("found = %+v", found)
		}
		if _, err := tx.FindTransactionByKey(ctx, 1, "missing"); !errors.Is(err, ledger.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestLedgerDao_UserNotFound(t *testing.T) {
	ds := newTestDB(t)
	e := ledger.NewEngine(NewLedgerDao(ds), nil)
	_, err := e.ExecuteTrade(context.Background(), ledger.TradeRequest{
		UserID: 404, InstrumentID: 1, Side: ledger.Buy, ShareCount: 1, Price: decimal.NewFromInt(1),
	})
	if !errors.Is(err, ledger.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestArtistDao(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()
	small := seedArtist(t, ds, "SMALL", "5", "100")
	seedArtist(t, ds, "BIG", "50", "5000")
	d := NewArtistDao(ds)

	list, err := d.ArtistGetList(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Symbol != "BIG" {
		t.Fatalf("list = %+v, want ordered by market cap", list)
	}

	got, err := d.ArtistGetBySymbol(ctx, "SMALL")
	if err != nil || got.Id != small.Id {
		t.Fatalf("by symbol: %+v %v", got, err)
	}
	if _, err := d.ArtistGetBySymbol(ctx, "NOPE"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}

	now := time.Now().UTC()
	small.CurrentPrice = decimal.NewFromInt(6)
	small.PriceChange = decimal.NewFromInt(1)
	small.PriceChangePercent = decimal.NewFromInt(20)
	old := &entity.PriceHistory{Id: 1, ArtistId: small.Id, Price: decimal.NewFromInt(4), RecordedAt: now.Add(-40 * 24 * time.Hour)}
	if err := ds.Create(old).Error; err != nil {
		t.Fatal(err)
	}
	if err := d.ArtistPriceUpdate(ctx, &small, &entity.PriceHistory{Id: 2, ArtistId: small.Id, Price: small.CurrentPrice, Volume: 10, RecordedAt: now}); err != nil {
		t.Fatal(err)
	}

	got, err = d.ArtistGetById(ctx, small.Id)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CurrentPrice.Equal(decimal.NewFromInt(6)) || !got.PriceChangePercent.Equal(decimal.NewFromInt(20)) {
		t.Errorf("artist after update = %+v", got)
	}

	history, err := d.PriceHistoryGet(ctx, small.Id, now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Id != 2 {
		t.Errorf("history = %+v, want only the recent row", history)
	}
}

func TestWatchlistDao(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()
	a := seedArtist(t, ds, "A", "1", "1")
	d := NewWatchlistDao(ds)

	for i := 0; i < 2; i++ {
		if err := d.WatchlistAdd(ctx, 1, a.Id); err != nil {
			t.Fatal(err)
		}
	}
	list, err := d.WatchlistGet(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Artist.Symbol != "A" {
		t.Fatalf("list = %+v, want one item with artist", list)
	}

	if err := d.WatchlistRemove(ctx, 1, a.Id); err != nil {
		t.Fatal(err)
	}
	if list, _ = d.WatchlistGet(ctx, 1); len(list) != 0 {
		t.Fatalf("list after remove = %+v", list)
	}

	// 删除后可以重新添加
	if err := d.WatchlistAdd(ctx, 1, a.Id); err != nil {
		t.Fatal(err)
	}
	if list, _ = d.WatchlistGet(ctx, 1); len(list) != 1 {
		t.Fatalf("list after re-add = %+v", list)
	}
}

func TestUserDao_Verified(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()
	users := []entity.User{
		{Id: 1, Username: "a", LastfmVerified: true, TotalScrobbles: 10},
		{Id: 2, Username: "b", LastfmVerified: false, TotalScrobbles: 99},
		{Id: 3, Username: "c", LastfmVerified: true, TotalScrobbles: 50},
	}
	d := NewUserDao(ds)
	for i := range users {
		if err := d.UserCreate(ctx, &users[i]); err != nil {
			t.Fatal(err)
		}
	}
	list, err := d.UserGetVerified(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Id != 3 || list[1].Id != 1 {
		t.Fatalf("verified = %+v", list)
	}

	if _, err := d.UserGetById(ctx, 404); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}
