package service

import (
	"context"
	"testing"

	"scrobblex/internal/dao/query"
	"scrobblex/pkg/errors/ecode"
)

func TestWatchlistService(t *testing.T) {
	ds := newTestDB(t)
	a := seedArtist(t, ds, "A", "Artist A", "1")
	b := seedArtist(t, ds, "B", "Artist B", "2")
	svc := NewWatchlistService(query.NewWatchlistDao(ds), query.NewArtistDao(ds))
	ctx := context.Background()

	for _, id := range []int64{a.Id, b.Id, a.Id} {
		if err := svc.WatchlistAdd(ctx, 1, id); err != nil {
			t.Fatal(err)
		}
	}
	assertCode(t, svc.WatchlistAdd(ctx, 1, 999), ecode.ArtistNotFoundErr)

	list, err := svc.WatchlistGet(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("watchlist = %+v", list)
	}

	if err := svc.WatchlistRemove(ctx, 1, a.Id); err != nil {
		t.Fatal(err)
	}
	list, err = svc.WatchlistGet(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Symbol != "B" {
		t.Fatalf("after remove = %+v", list)
	}

	other, err := svc.WatchlistGet(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("other user's watchlist = %+v", other)
	}
}
