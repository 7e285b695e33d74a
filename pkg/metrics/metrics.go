package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 服务的 Prometheus 指标
type Registry struct {
	reg *prometheus.Registry

	TradesTotal   *prometheus.CounterVec
	TradeDuration *prometheus.HistogramVec
	TradeRetries  prometheus.Counter
	CacheRequests *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		TradesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrobblex_trades_total",
				Help: "Trades handled by the ledger, by side and result",
			},
			[]string{"side", "result"},
		),
		TradeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scrobblex_trade_duration_seconds",
				Help:    "Time spent executing a trade including lock wait and retries",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"side"},
		),
		TradeRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "scrobblex_trade_retries_total",
				Help: "Trade attempts retried after a storage conflict",
			},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scrobblex_cache_requests_total",
				Help: "Redis cache lookups by cache and outcome",
			},
			[]string{"cache", "outcome"},
		),
	}
	r.reg.MustRegister(
		r.TradesTotal,
		r.TradeDuration,
		r.TradeRetries,
		r.CacheRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveTrade 记录一次交易结果，result 为 ok、replayed 或错误码
func (r *Registry) ObserveTrade(side, result string, start time.Time) {
	r.TradesTotal.WithLabelValues(side, result).Inc()
	r.TradeDuration.WithLabelValues(side).Observe(time.Since(start).Seconds())
}

func (r *Registry) CacheHit(cache string)  { r.CacheRequests.WithLabelValues(cache, "hit").Inc() }
func (r *Registry) CacheMiss(cache string) { r.CacheRequests.WithLabelValues(cache, "miss").Inc() }

// Handler /metrics 接口
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
