package usecases

import (
	"context"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
	"github.com/samirrijal/cctvlocator/internal/pkg/geospatial"
	"github.com/samirrijal/cctvlocator/internal/pkg/logging"
)

type verdict uint8

const (
	verdictMalformed verdict = iota
	verdictOutside
	verdictInside
)

type measurement struct {
	verdict  verdict
	distance float64
}

// distanceStats summarizes one filter pass.
type distanceStats struct {
	Malformed int
	Outside   int
}

// ctxCheckEvery is how many candidates are measured between context checks.
const ctxCheckEvery = 256

// filterByDistance keeps the cameras whose exact geodesic distance to center
// is within radiusKm. Cameras with unparsable or out-of-range coordinates are
// dropped silently. Output preserves input order, also when the work is
// split across goroutines (len(cameras) >= parallelThreshold > 0).
// It stops early with ctx.Err() once ctx is done.
func filterByDistance(
	ctx context.Context,
	cameras []domain.Camera,
	center domain.GeoPoint,
	radiusKm float64,
	parallelThreshold int,
) ([]domain.NearbyCamera, distanceStats, error) {
	measured := make([]measurement, len(cameras))

	measureRange := func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if (i-start)%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			measured[i] = measure(cameras[i], center, radiusKm)
		}
		return nil
	}

	if parallelThreshold > 0 && len(cameras) >= parallelThreshold {
		workers := runtime.GOMAXPROCS(0)
		chunk := (len(cameras) + workers - 1) / workers

		g, gctx := errgroup.WithContext(ctx)
		for start := 0; start < len(cameras); start += chunk {
			end := min(start+chunk, len(cameras))
			g.Go(func() error {
				return measureRange(gctx, start, end)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, distanceStats{}, err
		}
	} else if err := measureRange(ctx, 0, len(cameras)); err != nil {
		return nil, distanceStats{}, err
	}

	log := logging.FromContext(ctx)
	results := make([]domain.NearbyCamera, 0, len(cameras))
	var stats distanceStats
	for i, m := range measured {
		switch m.verdict {
		case verdictMalformed:
			stats.Malformed++
			log.Debug("skipping camera with malformed coordinates",
				"camera_id", cameras[i].ID,
				"latitude", cameras[i].Latitude,
				"longitude", cameras[i].Longitude,
			)
		case verdictOutside:
			stats.Outside++
		case verdictInside:
			results = append(results, domain.NearbyCamera{
				Camera:   cameras[i],
				CameraID: cameras[i].ID,
				Distance: m.distance,
			})
		}
	}
	return results, stats, nil
}

func measure(cam domain.Camera, center domain.GeoPoint, radiusKm float64) measurement {
	p, ok := parseCoordinates(cam.Latitude, cam.Longitude)
	if !ok {
		return measurement{verdict: verdictMalformed}
	}
	d := geospatial.Geodesic(p.Lat, p.Lon, center.Lat, center.Lon)
	if d <= radiusKm {
		return measurement{verdict: verdictInside, distance: d}
	}
	return measurement{verdict: verdictOutside, distance: d}
}

// parseCoordinates turns stored decimal text into a validated point.
func parseCoordinates(latText, lonText string) (domain.GeoPoint, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return domain.GeoPoint{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return domain.GeoPoint{}, false
	}
	p, err := domain.NewGeoPoint(lat, lon)
	if err != nil {
		return domain.GeoPoint{}, false
	}
	return p, true
}
