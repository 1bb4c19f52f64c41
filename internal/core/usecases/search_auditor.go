package usecases

import (
	"context"
	"sync"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
	"github.com/samirrijal/cctvlocator/internal/pkg/logging"
	"github.com/samirrijal/cctvlocator/internal/pkg/metrics"
)

// AuditStats summarizes the search events seen by a SearchAuditor.
type AuditStats struct {
	Searches     int64
	EmptyResults int64
	Rejected     int64
	TotalResults int64
}

// SearchAuditor consumes search events, logs them and keeps running totals.
type SearchAuditor struct {
	mu    sync.Mutex
	stats AuditStats
}

// NewSearchAuditor creates an empty SearchAuditor.
func NewSearchAuditor() *SearchAuditor {
	return &SearchAuditor{}
}

// Handle records one event. Events that could not come from a valid search
// are counted as rejected and acknowledged, never retried.
func (a *SearchAuditor) Handle(ctx context.Context, event *domain.SearchEvent) error {
	log := logging.FromContext(ctx)

	if _, err := domain.NewGeoPoint(event.Center.Lat, event.Center.Lon); err != nil || event.RadiusMeters <= 0 {
		a.mu.Lock()
		a.stats.Rejected++
		a.mu.Unlock()
		metrics.EventsConsumed.WithLabelValues("rejected").Inc()
		log.Warn("rejected search event", "request_id", event.RequestID, "radius_m", event.RadiusMeters)
		return nil
	}

	a.mu.Lock()
	a.stats.Searches++
	a.stats.TotalResults += int64(event.Results)
	if event.Results == 0 {
		a.stats.EmptyResults++
	}
	a.mu.Unlock()
	metrics.EventsConsumed.WithLabelValues("ok").Inc()

	log.Info("search performed",
		"request_id", event.RequestID,
		"lat", event.Center.Lat,
		"lon", event.Center.Lon,
		"radius_m", event.RadiusMeters,
		"status_filter", event.StatusFilter,
		"ownership_filter", event.OwnershipFilter,
		"candidates", event.Candidates,
		"results", event.Results,
		"duration_ms", event.DurationMs,
	)
	return nil
}

// Stats returns a snapshot of the running totals.
func (a *SearchAuditor) Stats() AuditStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
