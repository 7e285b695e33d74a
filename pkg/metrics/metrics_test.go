package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.ObserveTrade("buy", "ok", time.Now())
	r.ObserveTrade("buy", "ok", time.Now())
	r.ObserveTrade("sell", "20002", time.Now())
	r.CacheHit("artists")
	r.CacheMiss("artists")
	r.TradeRetries.Inc()

	if got := testutil.ToFloat64(r.TradesTotal.WithLabelValues("buy", "ok")); got != 2 {
		t.Errorf("buy ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.CacheRequests.WithLabelValues("artists", "hit")); got != 1 {
		t.Errorf("cache hit = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"scrobblex_trades_total", "scrobblex_trade_duration_seconds", "scrobblex_trade_retries_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
