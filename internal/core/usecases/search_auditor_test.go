package usecases_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
	"github.com/samirrijal/cctvlocator/internal/core/usecases"
)

func TestSearchAuditor_Handle(t *testing.T) {
	a := usecases.NewSearchAuditor()
	ctx := context.Background()

	events := []*domain.SearchEvent{
		{Center: domain.GeoPoint{Lat: 19.076, Lon: 72.8777}, RadiusMeters: 500, Results: 3},
		{Center: domain.GeoPoint{Lat: 19.076, Lon: 72.8777}, RadiusMeters: 1000, Results: 0},
		{Center: domain.GeoPoint{Lat: 95, Lon: 0}, RadiusMeters: 500},
		{Center: domain.GeoPoint{Lat: 0, Lon: 0}, RadiusMeters: 0},
	}
	for _, e := range events {
		require.NoError(t, a.Handle(ctx, e))
	}

	assert.Equal(t, usecases.AuditStats{
		Searches:     2,
		EmptyResults: 1,
		Rejected:     2,
		TotalResults: 3,
	}, a.Stats())
}

func TestSearchAuditor_Concurrent(t *testing.T) {
	a := usecases.NewSearchAuditor()
	ev := &domain.SearchEvent{Center: domain.GeoPoint{Lat: 1, Lon: 1}, RadiusMeters: 500, Results: 2}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = a.Handle(context.Background(), ev)
		}()
	}
	wg.Wait()

	s := a.Stats()
	assert.EqualValues(t, 50, s.Searches)
	assert.EqualValues(t, 100, s.TotalResults)
}
