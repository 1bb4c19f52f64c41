package ports

import (
	"context"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSearchEvent(ctx context.Context, event *domain.SearchEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeSearchEvents(ctx context.Context, handler func(ctx context.Context, event *domain.SearchEvent) error) error
}
