package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// findInBoundsSQL selects candidates through the numeric lat_deg/lon_deg
// columns. The longitude test takes two intervals so boxes crossing the
// antimeridian stay a single query; an unsplit box passes its interval twice.
// Rows whose text coordinates are not plain decimals have NULL lat_deg and
// are never returned.
const findInBoundsSQL = `
	SELECT id,
	       COALESCE(location, ''),
	       COALESCE(private_govt, ''),
	       COALESCE(owner_name, ''),
	       COALESCE(contact_no, ''),
	       COALESCE(latitude, ''),
	       COALESCE(longitude, ''),
	       COALESCE(coverage, ''),
	       COALESCE(backup, ''),
	       COALESCE(connected_network, ''),
	       COALESCE(status, 'Pending')
	FROM camera_info
	WHERE lat_deg BETWEEN $1 AND $2
	  AND (lon_deg BETWEEN $3 AND $4 OR lon_deg BETWEEN $5 AND $6)
	ORDER BY id`

// CameraRepo implements ports.CameraRepository with pgx.
type CameraRepo struct {
	q Querier
}

// NewCameraRepo creates a new CameraRepo. q is usually DB.Pool.
func NewCameraRepo(q Querier) *CameraRepo {
	return &CameraRepo{q: q}
}

// FindInBounds returns cameras whose coordinates fall inside box.
func (r *CameraRepo) FindInBounds(ctx context.Context, box domain.Bounds) ([]domain.Camera, error) {
	intervals := box.LonIntervals()
	first, second := intervals[0], intervals[0]
	if len(intervals) > 1 {
		second = intervals[1]
	}

	rows, err := r.q.Query(ctx, findInBoundsSQL,
		box.MinLat, box.MaxLat,
		first.Min, first.Max,
		second.Min, second.Max,
	)
	if err != nil {
		return nil, fmt.Errorf("query camera_info: %w", err)
	}
	defer rows.Close()

	cams, err := pgx.CollectRows(rows, scanCamera)
	if err != nil {
		return nil, fmt.Errorf("scan camera_info: %w", err)
	}
	return cams, nil
}

func scanCamera(row pgx.CollectableRow) (domain.Camera, error) {
	var c domain.Camera
	err := row.Scan(
		&c.ID, &c.Location, &c.PrivateGovt, &c.OwnerName, &c.ContactNo,
		&c.Latitude, &c.Longitude, &c.Coverage, &c.Backup,
		&c.ConnectedNetwork, &c.Status,
	)
	return c, err
}
