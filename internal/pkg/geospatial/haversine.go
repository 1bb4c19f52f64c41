package geospatial

import "math"

const (
	earthRadiusKm = 6371.0

	// KmPerDegree approximates the length of one degree of latitude.
	KmPerDegree = 111.1

	// minCosLat floors cos(lat) so the longitude delta stays finite at the poles.
	minCosLat = 1e-12
)

// Haversine calculates the great-circle distance in kilometers between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns a degree-space box that contains every point within
// radiusKm of (lat, lon). Deltas use the 111.1 km/degree approximation and
// are inflated by margin (0.01 = 1%).
//
// When the disk reaches a pole, or the longitude delta would cover the whole
// circle, longitude is returned as [-180, 180]. Otherwise minLon/maxLon may
// extend past ±180 when the box crosses the antimeridian.
func BoundingBox(lat, lon, radiusKm, margin float64) (minLat, minLon, maxLat, maxLon float64) {
	scale := 1 + margin
	latDelta := radiusKm / KmPerDegree * scale

	minLat, maxLat = lat-latDelta, lat+latDelta
	if minLat <= -90 || maxLat >= 90 {
		return math.Max(minLat, -90), -180, math.Min(maxLat, 90), 180
	}

	cosLat := math.Abs(math.Cos(toRad(lat)))
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	lonDelta := radiusKm / (KmPerDegree * cosLat)

	// Tangent-meridian bound on the sphere; larger than the linear delta
	// for wide disks at high latitude.
	x := math.Sin(radiusKm/earthRadiusKm) / cosLat
	if x >= 1 {
		return minLat, -180, maxLat, 180
	}
	lonDelta = math.Max(lonDelta, toDeg(math.Asin(x))) * scale
	if lonDelta >= 180 {
		return minLat, -180, maxLat, 180
	}

	return minLat, lon - lonDelta, maxLat, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
