package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"scrobblex/conf"
	"scrobblex/internal/dao"
	"scrobblex/internal/ledger"
	"scrobblex/internal/model"
	"scrobblex/internal/model/entity"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
	"scrobblex/pkg/kafka"
	"scrobblex/pkg/logger"
	"scrobblex/pkg/metrics"
	"scrobblex/pkg/utils"
	helper "scrobblex/utils"
)

type TradeService interface {
	// Trade 以服务端当前价格成交，meta 随流水保存
	Trade(ctx context.Context, userId int64, req model.TradeReq, meta map[string]string) (res model.TradeRes, err error)
	TransactionsGet(ctx context.Context, userId int64, page, limit int) ([]model.TransactionItem, error)
}

type tradeService struct {
	engine   *ledger.Engine
	store    ledger.Store
	ad       dao.ArtistDao
	producer kafka.ProducerService
	metrics  *metrics.Registry
	cfg      conf.TradeConfig
}

func NewTradeService(store ledger.Store, locker ledger.Locker, ad dao.ArtistDao, producer kafka.ProducerService,
	m *metrics.Registry, cfg conf.TradeConfig, opts ...ledger.Option) *tradeService {
	return &tradeService{
		engine:   ledger.NewEngine(store, locker, opts...),
		store:    store,
		ad:       ad,
		producer: producer,
		metrics:  m,
		cfg:      cfg,
	}
}

func (t *tradeService) Trade(ctx context.Context, userId int64, req model.TradeReq, meta map[string]string) (res model.TradeRes, err error) {
	start := time.Now()
	side := ledger.Side(req.Side)
	var out ledger.Outcome
	defer func() {
		result := "ok"
		switch {
		case err != nil:
			result = strconv.Itoa(errors.Code(err))
		case out.Replayed:
			result = "replayed"
		}
		t.metrics.ObserveTrade(req.Side, result, start)
	}()

	artist, err := t.ad.ArtistGetById(ctx, req.ArtistId)
	if err != nil {
		if isNotFound(err) {
			return res, errors.WithCode(ecode.ArtistNotFoundErr, "artist %d not found", req.ArtistId)
		}
		return res, err
	}

	price := artist.CurrentPrice
	if req.Price != nil {
		if err := t.checkPrice(*req.Price, price); err != nil {
			return res, err
		}
	}

	lreq := ledger.TradeRequest{
		UserID:         userId,
		InstrumentID:   artist.Id,
		Side:           side,
		ShareCount:     req.Shares,
		Price:          price,
		IdempotencyKey: req.IdempotencyKey,
		Metadata:       meta,
	}

	attempt := 0
	err = utils.Retry(ctx, t.cfg.MaxRetries+1, t.cfg.RetryBackoff, ledger.Retryable, func() error {
		if attempt > 0 {
			t.metrics.TradeRetries.Inc()
			logger.Warnf("交易存储冲突，第 %d 次重试 user=%d artist=%d", attempt, userId, artist.Id)
		}
		attempt++
		var e error
		out, e = t.engine.Execute(ctx, lreq)
		return e
	})
	if err != nil {
		return res, ledgerErr(err)
	}
	txn := out.Transaction

	res.Transaction = toTransactionItem(txn, &artist)
	res.Message = tradeMessage(txn, &artist)
	if err := t.fillSnapshot(ctx, &res, userId, artist.Id); err != nil {
		logger.Errorf("load ledger snapshot user=%d: %v", userId, err)
	}

	// 幂等重放的交易之前已经发布过
	if !out.Replayed {
		go t.publish(txn, &artist)
	}
	return res, nil
}

// checkPrice 客户端看到的价格和当前价格偏差超过阈值时拒绝
func (t *tradeService) checkPrice(quoted float64, current decimal.Decimal) error {
	client, err := ledger.PriceFromFloat(quoted)
	if err != nil {
		return errors.Wrap(err, ecode.ValidateErr, err.Error())
	}
	if !current.IsPositive() {
		return nil
	}
	deviation := client.Sub(current).Abs().Div(current)
	if deviation.GreaterThan(decimal.NewFromFloat(t.cfg.MaxPriceDeviation)) {
		return errors.WithCode(ecode.PriceChangedErr, "price has changed from %s to %s",
			client.StringFixed(ledger.CashScale), current.StringFixed(ledger.CashScale))
	}
	return nil
}

// fillSnapshot 读取成交后的余额和持仓
func (t *tradeService) fillSnapshot(ctx context.Context, res *model.TradeRes, userId, artistId int64) error {
	return t.store.Atomic(ctx, func(tx ledger.Tx) error {
		account, err := tx.GetAccount(ctx, userId)
		if err != nil {
			return err
		}
		res.Balance = account.CashBalance

		p, err := tx.GetPosition(ctx, userId, artistId)
		if stderrors.Is(err, ledger.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		res.Position = &model.PositionItem{
			ArtistId:      p.InstrumentID,
			Shares:        p.ShareCount,
			AveragePrice:  p.AverageCost,
			TotalInvested: p.TotalInvested,
		}
		return nil
	})
}

func (t *tradeService) publish(txn *ledger.Transaction, artist *entity.Artist) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := t.producer.PublishTrade(ctx, kafka.TradeEvent{
		TransactionId: txn.ID,
		UserId:        txn.UserID,
		ArtistId:      txn.InstrumentID,
		Symbol:        artist.Symbol,
		Side:          string(txn.Side),
		Shares:        txn.ShareCount,
		Price:         txn.Price.String(),
		Total:         txn.Total.StringFixed(ledger.CashScale),
		Timestamp:     txn.Timestamp,
	})
	if err != nil {
		logger.Warnf("publish trade event %d: %v", txn.ID, err)
	}
}

func (t *tradeService) TransactionsGet(ctx context.Context, userId int64, page, limit int) ([]model.TransactionItem, error) {
	page, limit = helper.NormalizePage(page, limit)
	txns, err := t.store.ListTransactionsForUser(ctx, userId, page, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(txns))
	seen := make(map[int64]bool)
	for _, txn := range txns {
		if !seen[txn.InstrumentID] {
			seen[txn.InstrumentID] = true
			ids = append(ids, txn.InstrumentID)
		}
	}
	artists, err := t.ad.ArtistGetByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byId := make(map[int64]*entity.Artist, len(artists))
	for i := range artists {
		byId[artists[i].Id] = &artists[i]
	}

	list := make([]model.TransactionItem, 0, len(txns))
	for i := range txns {
		list = append(list, toTransactionItem(&txns[i], byId[txns[i].InstrumentID]))
	}
	return list, nil
}

func toTransactionItem(txn *ledger.Transaction, artist *entity.Artist) model.TransactionItem {
	item := model.TransactionItem{
		Id:        txn.ID,
		Type:      string(txn.Side),
		ArtistId:  txn.InstrumentID,
		Shares:    txn.ShareCount,
		Price:     txn.Price,
		Total:     txn.Total,
		Timestamp: txn.Timestamp,
	}
	if artist != nil {
		item.Symbol = artist.Symbol
		item.Name = artist.Name
	}
	return item
}

func tradeMessage(txn *ledger.Transaction, artist *entity.Artist) string {
	verb := "bought"
	if txn.Side == ledger.Sell {
		verb = "sold"
	}
	return fmt.Sprintf("Successfully %s %d shares of %s", verb, txn.ShareCount, artist.Name)
}
