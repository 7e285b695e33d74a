package kafka

import (
	"context"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"scrobblex/pkg/logger"
)

// TradeHandler 处理一条成交事件
type TradeHandler func(ctx context.Context, ev TradeEvent) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TradeConsumer 消费成交事件
type TradeConsumer struct {
	reader messageReader
	topic  string
}

func NewTradeConsumer(brokerURL, topic, groupID string) *TradeConsumer {
	return &TradeConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{brokerURL},
			Topic:       topic,
			GroupID:     groupID,
			MinBytes:    1,
			MaxBytes:    10e6, // 10MB
			StartOffset: kafka.LastOffset,
			MaxAttempts: 3,
		}),
		topic: topic,
	}
}

// Run 阻塞消费直到 ctx 取消。处理失败的消息记录日志后仍然提交，不阻塞后续消息
func (c *TradeConsumer) Run(ctx context.Context, handle TradeHandler) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			logger.Errorf("close kafka reader: %v", err)
		}
		logger.Infof("Kafka Consumer for topic %s finished.", c.topic)
	}()
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			// Context 被取消（服务关闭），正常退出
			if ctx.Err() != nil {
				return
			}
			logger.Errorf("Kafka read error on topic %s: %v", c.topic, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		var ev TradeEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			logger.Warnf("drop malformed trade event at offset %d: %v", m.Offset, err)
		} else if err := handle(ctx, ev); err != nil {
			logger.Errorf("handle trade event %d: %v", ev.TransactionId, err)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			logger.Errorf("commit offset %d: %v", m.Offset, err)
		}
	}
}
