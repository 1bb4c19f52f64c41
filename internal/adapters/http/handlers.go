package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// nearbyCamerasRequest is the search body. Pointers distinguish a missing
// coordinate from an explicit zero.
type nearbyCamerasRequest struct {
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	RadiusMeters    *int     `json:"radius_meters"`
	StatusFilter    string   `json:"status_filter"`
	OwnershipFilter string   `json:"ownership_filter"`
}

// NearbyCamerasHandler searches cameras around a point.
//
// Body: {"latitude": 19.07, "longitude": 72.87, "radius_meters": 500,
// "status_filter": "working", "ownership_filter": "government"}.
// Responds with a JSON array ordered by distance, [] when nothing matches.
func NearbyCamerasHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body nearbyCamerasRequest
		if err := c.BodyParser(&body); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if body.Latitude == nil || body.Longitude == nil {
			return errBadRequest(c, "latitude and longitude are required")
		}

		radius := deps.Cameras.Options().DefaultRadiusMeters
		if body.RadiusMeters != nil {
			radius = *body.RadiusMeters
		}

		reqID, _ := c.Locals("requestid").(string)
		results, err := deps.Cameras.FindNearby(c.UserContext(), domain.SearchRequest{
			Center:          domain.GeoPoint{Lat: *body.Latitude, Lon: *body.Longitude},
			RadiusMeters:    radius,
			StatusFilter:    body.StatusFilter,
			OwnershipFilter: body.OwnershipFilter,
			RequestID:       reqID,
		})
		if err != nil {
			return searchError(c, err)
		}

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(results)
	}
}
