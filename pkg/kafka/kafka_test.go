package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestPublishTrade(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w)
	ev := TradeEvent{TransactionId: 1, UserId: 9, ArtistId: 3, Symbol: "TSWIFT", Side: "buy", Shares: 10, Price: "20.00", Total: "200.00"}
	if err := p.PublishTrade(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "9" {
		t.Errorf("key = %q, want user id", w.msgs[0].Key)
	}
	var got TradeEvent
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatal(err)
	}
	if got != ev {
		t.Errorf("payload = %+v, want %+v", got, ev)
	}
}

func TestPublishTrade_BreakerOpens(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newProducer(w)
	for i := 0; i < 5; i++ {
		_ = p.PublishTrade(context.Background(), TradeEvent{UserId: 1})
	}
	if err := p.PublishTrade(context.Background(), TradeEvent{UserId: 1}); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want open breaker", err)
	}
}

func TestNopProducer(t *testing.T) {
	p := NewTradeProducer("", "topic")
	if err := p.PublishTrade(context.Background(), TradeEvent{}); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

type fakeReader struct {
	msgs      chan kafka.Message
	committed []int64
	mu        sync.Mutex
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestTradeConsumer_Run(t *testing.T) {
	r := &fakeReader{msgs: make(chan kafka.Message, 2)}
	value, _ := json.Marshal(TradeEvent{TransactionId: 5})
	r.msgs <- kafka.Message{Offset: 1, Value: []byte("not json")}
	r.msgs <- kafka.Message{Offset: 2, Value: value}

	c := &TradeConsumer{reader: r, topic: "t"}
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan int64, 1)
	done := make(chan struct{})
	go func() {
		c.Run(ctx, func(_ context.Context, ev TradeEvent) error {
			got <- ev.TransactionId
			return nil
		})
		close(done)
	}()

	select {
	case id := <-got:
		if id != 5 {
			t.Errorf("handled transaction %d, want 5", id)
		}
	case <-time.After(time.Second):
		t.Fatal("event not handled")
	}
	cancel()
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.committed) != 2 {
		t.Errorf("committed %v, want both offsets", r.committed)
	}
}
