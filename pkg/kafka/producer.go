package kafka

import (
	"context"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"scrobblex/pkg/logger"
)

// TradeEvent 成交事件，交易提交后发布，下游用于刷新排行榜等
type TradeEvent struct {
	TransactionId int64     `json:"transaction_id"`
	UserId        int64     `json:"user_id"`
	ArtistId      int64     `json:"artist_id"`
	Symbol        string    `json:"symbol"`
	Side          string    `json:"side"`
	Shares        int64     `json:"shares"`
	Price         string    `json:"price"`
	Total         string    `json:"total"`
	Timestamp     time.Time `json:"timestamp"`
}

// ProducerService 定义接口，方便测试和替换
type ProducerService interface {
	PublishTrade(ctx context.Context, ev TradeEvent) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaProducer struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker
}

// NewTradeProducer broker 为空时返回不做任何事的 producer
func NewTradeProducer(brokerURL, topic string) ProducerService {
	if brokerURL == "" {
		return nopProducer{}
	}
	return newProducer(&kafka.Writer{
		Addr:         kafka.TCP(brokerURL),
		Topic:        topic,
		Balancer:     &kafka.Hash{}, // 同一用户的事件进入同一个 Partition
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 2 * time.Second,
	})
}

func newProducer(w messageWriter) *kafkaProducer {
	return &kafkaProducer{
		writer: w,
		// broker 不可用时快速失败，避免拖慢交易请求
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "kafka-trade-producer",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warnf("circuit breaker %s: %s -> %s", name, from, to)
			},
		}),
	}
}

func (p *kafkaProducer) PublishTrade(ctx context.Context, ev TradeEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(strconv.FormatInt(ev.UserId, 10)),
			Value: value,
		})
	})
	return err
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

type nopProducer struct{}

func (nopProducer) PublishTrade(context.Context, TradeEvent) error { return nil }
func (nopProducer) Close() error                                   { return nil }
