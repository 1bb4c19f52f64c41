package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// Subjects and stream for search audit events.
const (
	SearchStream         = "CAMERA_SEARCHES"
	SearchSubjectPrefix  = "cameras.search."
	SearchPerformedTopic = SearchSubjectPrefix + "performed"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the search stream.
func NewPublisher(url string, retention time.Duration) (*Publisher, error) {
	conn, err := connect(url)
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStream(js, searchStreamConfig(retention)); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

func searchStreamConfig(retention time.Duration) *nats.StreamConfig {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &nats.StreamConfig{
		Name:       SearchStream,
		Subjects:   []string{SearchSubjectPrefix + ">"},
		Retention:  nats.LimitsPolicy,
		MaxAge:     retention,
		Storage:    nats.FileStorage,
		Duplicates: 2 * time.Minute,
	}
}

func ensureStream(js nats.JetStreamContext, cfg *nats.StreamConfig) error {
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

// PublishSearchEvent publishes a completed search. The request ID, when
// present, is used as the JetStream message ID for de-duplication.
func (p *Publisher) PublishSearchEvent(ctx context.Context, event *domain.SearchEvent) error {
	msg, err := encodeSearchEvent(event)
	if err != nil {
		return err
	}
	_, err = p.js.PublishMsg(msg, nats.Context(ctx))
	return err
}

func encodeSearchEvent(event *domain.SearchEvent) (*nats.Msg, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode search event: %w", err)
	}
	msg := nats.NewMsg(SearchPerformedTopic)
	msg.Data = data
	msg.Header.Set("Content-Type", "application/json")
	if event.RequestID != "" {
		msg.Header.Set(nats.MsgIdHdr, event.RequestID)
	}
	return msg, nil
}

// Conn exposes the underlying connection for health checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

func connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}
