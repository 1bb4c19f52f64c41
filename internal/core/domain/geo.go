package domain

import "math"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewGeoPoint validates lat/lon and returns the point.
// Out-of-range values (including NaN and ±Inf) are rejected, never clamped.
func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
	if !(lat >= -90 && lat <= 90) {
		return GeoPoint{}, &InvalidCoordinateError{Axis: AxisLatitude, Value: lat}
	}
	if !(lon >= -180 && lon <= 180) {
		return GeoPoint{}, &InvalidCoordinateError{Axis: AxisLongitude, Value: lon}
	}
	return GeoPoint{Lat: lat, Lon: lon}, nil
}

// Bounds represents a geographic bounding box.
//
// MinLon/MaxLon may fall outside [-180, 180] when the box crosses the
// antimeridian; use LonIntervals to get store-ready ranges.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// LonInterval is a closed longitude range inside [-180, 180].
type LonInterval struct {
	Min float64
	Max float64
}

// LonIntervals normalizes the longitude span into one or two intervals.
func (b Bounds) LonIntervals() []LonInterval {
	if b.MaxLon-b.MinLon >= 360 {
		return []LonInterval{{Min: -180, Max: 180}}
	}
	switch {
	case b.MinLon < -180:
		return []LonInterval{
			{Min: -180, Max: math.Min(b.MaxLon, 180)},
			{Min: b.MinLon + 360, Max: 180},
		}
	case b.MaxLon > 180:
		return []LonInterval{
			{Min: b.MinLon, Max: 180},
			{Min: -180, Max: b.MaxLon - 360},
		}
	default:
		return []LonInterval{{Min: b.MinLon, Max: b.MaxLon}}
	}
}

// Contains reports whether p lies inside the box, honoring antimeridian wrap.
func (b Bounds) Contains(p GeoPoint) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	for _, iv := range b.LonIntervals() {
		if p.Lon >= iv.Min && p.Lon <= iv.Max {
			return true
		}
	}
	return false
}
