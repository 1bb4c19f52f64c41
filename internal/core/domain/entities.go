package domain

import (
	"time"
)

// DefaultCameraStatus is stored for cameras registered without a status.
const DefaultCameraStatus = "Pending"

// DefaultRadiusMeters is the search radius used when a request omits one.
const DefaultRadiusMeters = 500

// Camera is a CCTV camera record as kept by the camera store.
// Coordinates are decimal-formatted text, exactly as entered by field staff.
type Camera struct {
	ID               string `json:"id"`
	Location         string `json:"location"`
	PrivateGovt      string `json:"private_govt"`
	OwnerName        string `json:"owner_name"`
	ContactNo        string `json:"contact_no"`
	Latitude         string `json:"latitude"`
	Longitude        string `json:"longitude"`
	Coverage         string `json:"coverage"`
	Backup           string `json:"backup"`
	ConnectedNetwork string `json:"connected_network"`
	Status           string `json:"status"`
}

// NearbyCamera is a camera found by a proximity search.
type NearbyCamera struct {
	Camera
	CameraID string  `json:"camera_id"`
	Distance float64 `json:"distance"` // km, computed field
}

// SearchRequest describes a proximity search around Center.
type SearchRequest struct {
	Center          GeoPoint `json:"center"`
	RadiusMeters    int      `json:"radius_meters"`
	StatusFilter    string   `json:"status_filter,omitempty"`
	OwnershipFilter string   `json:"ownership_filter,omitempty"`
	RequestID       string   `json:"-"`
}

// RadiusKm returns the search radius in kilometers.
func (r SearchRequest) RadiusKm() float64 {
	return float64(r.RadiusMeters) / 1000
}

// SearchEvent is the audit record published after a completed search.
type SearchEvent struct {
	RequestID       string    `json:"request_id,omitempty"`
	Time            time.Time `json:"time"`
	Center          GeoPoint  `json:"center"`
	RadiusMeters    int       `json:"radius_meters"`
	StatusFilter    string    `json:"status_filter,omitempty"`
	OwnershipFilter string    `json:"ownership_filter,omitempty"`
	Candidates      int       `json:"candidates"`
	Results         int       `json:"results"`
	DurationMs      float64   `json:"duration_ms"`
}
