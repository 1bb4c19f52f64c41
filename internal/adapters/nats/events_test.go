package natsadapter

import (
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

func TestEncodeSearchEvent(t *testing.T) {
	event := &domain.SearchEvent{
		RequestID:    "req-42",
		Time:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Center:       domain.GeoPoint{Lat: 19.076, Lon: 72.8777},
		RadiusMeters: 1000,
		StatusFilter: "working",
		Candidates:   12,
		Results:      3,
	}

	msg, err := encodeSearchEvent(event)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if msg.Subject != "cameras.search.performed" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if got := msg.Header.Get(nats.MsgIdHdr); got != "req-42" {
		t.Errorf("msg id = %q, want req-42", got)
	}

	back, err := decodeSearchEvent(msg.Data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.RequestID != event.RequestID || back.Results != 3 || back.Center != event.Center || !back.Time.Equal(event.Time) {
		t.Errorf("decoded event differs: %+v", back)
	}
}

func TestEncodeSearchEvent_NoRequestID(t *testing.T) {
	msg, err := encodeSearchEvent(&domain.SearchEvent{RadiusMeters: 500})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := msg.Header.Get(nats.MsgIdHdr); got != "" {
		t.Errorf("expected no msg id, got %q", got)
	}
}

func TestDecodeSearchEvent_Invalid(t *testing.T) {
	if _, err := decodeSearchEvent([]byte("{not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSearchStreamConfig(t *testing.T) {
	cfg := searchStreamConfig(0)
	if cfg.Name != SearchStream {
		t.Errorf("name = %q", cfg.Name)
	}
	if len(cfg.Subjects) != 1 || cfg.Subjects[0] != "cameras.search.>" {
		t.Errorf("subjects = %v", cfg.Subjects)
	}
	if cfg.MaxAge != 7*24*time.Hour {
		t.Errorf("default retention = %v", cfg.MaxAge)
	}
	if got := searchStreamConfig(time.Hour).MaxAge; got != time.Hour {
		t.Errorf("retention = %v, want 1h", got)
	}
}
