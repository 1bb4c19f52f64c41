package usecases

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
	"github.com/samirrijal/cctvlocator/internal/core/ports"
	"github.com/samirrijal/cctvlocator/internal/pkg/geospatial"
	"github.com/samirrijal/cctvlocator/internal/pkg/logging"
	"github.com/samirrijal/cctvlocator/internal/pkg/metrics"
	"github.com/samirrijal/cctvlocator/internal/pkg/telemetry"
)

// SearchOptions tunes the search pipeline.
type SearchOptions struct {
	// DefaultRadiusMeters is applied by callers when a request omits the radius.
	DefaultRadiusMeters int
	// MaxRadiusMeters caps the search radius. Zero means no upper bound.
	MaxRadiusMeters int
	// BoxMargin inflates the bounding box (0.01 = 1%).
	BoxMargin float64
	// ParallelThreshold is the candidate count from which distances are
	// computed concurrently. Zero disables it.
	ParallelThreshold int
	// StoreTimeout bounds the candidate query. Zero means no extra bound.
	StoreTimeout time.Duration
}

// DefaultSearchOptions returns the options used when none are configured.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		DefaultRadiusMeters: domain.DefaultRadiusMeters,
		BoxMargin:           0.01,
		ParallelThreshold:   2048,
		StoreTimeout:        10 * time.Second,
	}
}

// CameraSearchService finds cameras near a point.
type CameraSearchService struct {
	cameras   ports.CameraRepository
	publisher ports.EventPublisher
	opts      SearchOptions
}

// NewCameraSearchService creates a new CameraSearchService. publisher may be nil.
func NewCameraSearchService(cameras ports.CameraRepository, publisher ports.EventPublisher, opts SearchOptions) *CameraSearchService {
	if opts.DefaultRadiusMeters <= 0 {
		opts.DefaultRadiusMeters = domain.DefaultRadiusMeters
	}
	if opts.MaxRadiusMeters < 0 {
		opts.MaxRadiusMeters = 0
	}
	if opts.BoxMargin < 0 {
		opts.BoxMargin = 0
	}
	return &CameraSearchService{cameras: cameras, publisher: publisher, opts: opts}
}

// Options returns the effective options.
func (s *CameraSearchService) Options() SearchOptions {
	return s.opts
}

// FindNearby returns every camera within req.RadiusMeters of req.Center,
// after status and ownership filtering, nearest first.
//
// Errors are *domain.InvalidCoordinateError for a bad center,
// domain.ErrInvalidRadius (wrapped) for a radius that is not positive or
// exceeds a configured cap, and
// *domain.RetrievalError when the store fails. The result is never nil.
func (s *CameraSearchService) FindNearby(ctx context.Context, req domain.SearchRequest) ([]domain.NearbyCamera, error) {
	start := time.Now()
	log := logging.FromContext(ctx)

	ctx, span := telemetry.Tracer().Start(ctx, "CameraSearchService.FindNearby",
		trace.WithAttributes(
			attribute.Float64("search.lat", req.Center.Lat),
			attribute.Float64("search.lon", req.Center.Lon),
			attribute.Int("search.radius_m", req.RadiusMeters),
		))
	defer span.End()

	center, err := domain.NewGeoPoint(req.Center.Lat, req.Center.Lon)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		span.SetStatus(codes.Error, "invalid center")
		return nil, err
	}

	if err := s.checkRadius(req.RadiusMeters); err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		span.SetStatus(codes.Error, "invalid radius")
		return nil, err
	}
	radiusKm := req.RadiusKm()

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(center.Lat, center.Lon, radiusKm, s.opts.BoxMargin)
	box := domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}

	candidates, err := s.fetchCandidates(ctx, box)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues(metrics.OutcomeStoreFailure).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "candidate retrieval failed")
		log.Error("candidate retrieval failed", "error", err, "box", box)
		return nil, &domain.RetrievalError{Err: err}
	}
	metrics.CandidatesFetched.Observe(float64(len(candidates)))

	nearby, stats, err := filterByDistance(ctx, candidates, center, radiusKm, s.opts.ParallelThreshold)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search abandoned")
		return nil, fmt.Errorf("filter candidates: %w", err)
	}
	if stats.Malformed > 0 {
		metrics.MalformedCandidates.Add(float64(stats.Malformed))
	}

	results := nearby[:0]
	for _, cam := range nearby {
		if MatchesStatus(cam.Status, req.StatusFilter) && MatchesOwnership(cam.PrivateGovt, req.OwnershipFilter) {
			results = append(results, cam)
		}
	}
	rankResults(results)

	elapsed := time.Since(start)
	metrics.SearchesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.SearchDuration.Observe(elapsed.Seconds())
	metrics.ResultsReturned.Observe(float64(len(results)))
	span.SetAttributes(
		attribute.Int("search.candidates", len(candidates)),
		attribute.Int("search.results", len(results)),
	)

	log.Debug("nearby search",
		"candidates", len(candidates),
		"malformed", stats.Malformed,
		"outside_radius", stats.Outside,
		"results", len(results),
		"duration", elapsed.String(),
	)

	s.publish(ctx, &domain.SearchEvent{
		RequestID:       req.RequestID,
		Time:            start.UTC(),
		Center:          center,
		RadiusMeters:    req.RadiusMeters,
		StatusFilter:    req.StatusFilter,
		OwnershipFilter: req.OwnershipFilter,
		Candidates:      len(candidates),
		Results:         len(results),
		DurationMs:      float64(elapsed.Microseconds()) / 1000,
	})

	return results, nil
}

func (s *CameraSearchService) checkRadius(meters int) error {
	if meters <= 0 {
		return fmt.Errorf("%w: radius must be a positive number of meters, got %d", domain.ErrInvalidRadius, meters)
	}
	if s.opts.MaxRadiusMeters > 0 && meters > s.opts.MaxRadiusMeters {
		return fmt.Errorf("%w: radius must be at most %d meters, got %d",
			domain.ErrInvalidRadius, s.opts.MaxRadiusMeters, meters)
	}
	return nil
}

func (s *CameraSearchService) fetchCandidates(ctx context.Context, box domain.Bounds) ([]domain.Camera, error) {
	if s.opts.StoreTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.StoreTimeout)
		defer cancel()
	}

	ctx, span := telemetry.Tracer().Start(ctx, "CameraRepository.FindInBounds")
	defer span.End()

	start := time.Now()
	cams, err := s.cameras.FindInBounds(ctx, box)
	metrics.StoreQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
	}
	return cams, err
}

// publish emits the audit event. Failures are logged and never surface to the caller.
func (s *CameraSearchService) publish(ctx context.Context, event *domain.SearchEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSearchEvent(ctx, event); err != nil {
		metrics.EventsPublishFailed.Inc()
		logging.FromContext(ctx).Warn("publish search event", "error", err)
	}
}
