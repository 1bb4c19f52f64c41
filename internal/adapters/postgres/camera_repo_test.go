package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

var cameraColumns = []string{
	"id", "location", "private_govt", "owner_name", "contact_no",
	"latitude", "longitude", "coverage", "backup", "connected_network", "status",
}

func TestCameraRepo_FindInBounds(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	box := domain.Bounds{MinLat: 19.0, MinLon: 72.8, MaxLat: 19.2, MaxLon: 73.0}

	mock.ExpectQuery("FROM camera_info").
		WithArgs(19.0, 19.2, 72.8, 73.0, 72.8, 73.0).
		WillReturnRows(pgxmock.NewRows(cameraColumns).
			AddRow("cam-1", "CST Junction", "Govt.", "BMC", "022-1234", "19.0832", "72.8777", "360", "30 days", "MTNL", "Working").
			AddRow("cam-2", "Fort", "Private", "Shop", "", "19.0715", "72.8777", "", "", "", "Pending"))

	repo := NewCameraRepo(mock)
	cams, err := repo.FindInBounds(context.Background(), box)
	require.NoError(t, err)
	require.Len(t, cams, 2)

	assert.Equal(t, "cam-1", cams[0].ID)
	assert.Equal(t, "Govt.", cams[0].PrivateGovt)
	assert.Equal(t, "19.0832", cams[0].Latitude)
	assert.Equal(t, "MTNL", cams[0].ConnectedNetwork)
	assert.Equal(t, "Pending", cams[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCameraRepo_FindInBounds_Antimeridian(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	box := domain.Bounds{MinLat: -17.0, MinLon: 179.5, MaxLat: -16.0, MaxLon: 180.5}

	mock.ExpectQuery("FROM camera_info").
		WithArgs(-17.0, -16.0, 179.5, 180.0, -180.0, -179.5).
		WillReturnRows(pgxmock.NewRows(cameraColumns))

	repo := NewCameraRepo(mock)
	cams, err := repo.FindInBounds(context.Background(), box)
	require.NoError(t, err)
	assert.Empty(t, cams)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCameraRepo_FindInBounds_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cause := errors.New("connection reset by peer")
	mock.ExpectQuery("FROM camera_info").WillReturnError(cause)

	repo := NewCameraRepo(mock)
	_, err = repo.FindInBounds(context.Background(), domain.Bounds{MinLat: 0, MinLon: 0, MaxLat: 1, MaxLon: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "query camera_info")
	assert.NoError(t, mock.ExpectationsWereMet())
}
