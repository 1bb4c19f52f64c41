package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	durable string
	subs    []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
// durable names the JetStream consumer.
func NewSubscriber(url, durable string) (*Subscriber, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, err
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if durable == "" {
		durable = "search-auditor"
	}
	return &Subscriber{conn: conn, js: js, durable: durable}, nil
}

// SubscribeSearchEvents delivers search events to handler. Undecodable
// messages are terminated; handler errors are redelivered up to 3 times.
func (s *Subscriber) SubscribeSearchEvents(ctx context.Context, handler func(ctx context.Context, event *domain.SearchEvent) error) error {
	sub, err := s.js.Subscribe(SearchSubjectPrefix+">", func(msg *nats.Msg) {
		event, err := decodeSearchEvent(msg.Data)
		if err != nil {
			slog.Warn("dropping undecodable search event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(s.durable),
		nats.ManualAck(),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SearchSubjectPrefix+">", err)
	}
	s.subs = append(s.subs, sub)
	return nil
}

func decodeSearchEvent(data []byte) (*domain.SearchEvent, error) {
	var event domain.SearchEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode search event: %w", err)
	}
	return &event, nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
