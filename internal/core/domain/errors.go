package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Coordinate axes reported by InvalidCoordinateError.
const (
	AxisLatitude  = "latitude"
	AxisLongitude = "longitude"
)

// ErrInvalidRadius is returned for a search radius that is not positive or
// exceeds the configured maximum.
var ErrInvalidRadius = errors.New("invalid radius")

// InvalidCoordinateError reports a latitude or longitude outside its range.
type InvalidCoordinateError struct {
	Axis  string
	Value float64
}

func (e *InvalidCoordinateError) Error() string {
	v := strconv.FormatFloat(e.Value, 'f', -1, 64)
	if e.Axis == AxisLongitude {
		return "Longitude must be in the [-180; 180] range. Got " + v
	}
	return "Latitude must be in the [-90; 90] range. Got " + v
}

// RetrievalError wraps a candidate store failure (timeout, transport, query).
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("An error occurred while fetching nearby cameras: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}
