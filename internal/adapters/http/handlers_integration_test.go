//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/cctvlocator/internal/adapters/http"
	"github.com/samirrijal/cctvlocator/internal/adapters/postgres"
	"github.com/samirrijal/cctvlocator/internal/core/domain"
	"github.com/samirrijal/cctvlocator/internal/core/usecases"
	"github.com/samirrijal/cctvlocator/internal/pkg/config"
)

// setupTestDB connects to the test database, applies migrations and seeds
// a handful of cameras around central Mumbai.
func setupTestDB(t *testing.T) *postgres.DB {
	t.Helper()
	cfg, err := config.Load("cctvlocator-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire conn: %v", err)
	}
	err = postgres.MigrateUp(ctx, conn)
	conn.Release()
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := db.Pool.Exec(ctx, "TRUNCATE camera_info"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	seed := `
		INSERT INTO camera_info (id, location, private_govt, owner_name, latitude, longitude, status) VALUES
			('it-a', 'CST north gate', 'Govt.',   'BMC',        '19.0832',  '72.8777', 'Working'),
			('it-b', 'Fort market',    'Private', 'Shop owner', '19.0715',  '72.8777', 'Not Working'),
			('it-c', 'Bad entry',      'Private', 'Unknown',    'n/a',      '72.8777', 'Working'),
			('it-d', 'Thane',          'Govt.',   'TMC',        '19.2183',  '72.9781', 'Working'),
			('it-e', 'Azad Maidan',    'Govt.',   'BMC',        E'\t19.0790\n', '7.28777e1', 'Working')`
	if _, err := db.Pool.Exec(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	return db
}

func setupIntegrationApp(t *testing.T, db *postgres.DB) *fiber.App {
	t.Helper()
	svc := usecases.NewCameraSearchService(postgres.NewCameraRepo(db.Pool), nil, usecases.DefaultSearchOptions())
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, &handler.Dependencies{Cameras: svc, DB: db})
	return app
}

func TestIntegration_NearbyCameras(t *testing.T) {
	db := setupTestDB(t)
	app := setupIntegrationApp(t, db)

	req := httptest.NewRequest("POST", "/v1/cameras/nearby",
		strings.NewReader(`{"latitude": 19.0760, "longitude": 72.8777, "radius_meters": 1000}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var cams []domain.NearbyCamera
	if err := json.NewDecoder(resp.Body).Decode(&cams); err != nil {
		t.Fatal(err)
	}
	// it-e is stored with surrounding whitespace and exponent notation
	if len(cams) != 3 || cams[0].CameraID != "it-e" || cams[1].CameraID != "it-b" || cams[2].CameraID != "it-a" {
		t.Fatalf("expected [it-e it-b it-a], got %+v", cams)
	}
}

func TestIntegration_ReadyWithDatabase(t *testing.T) {
	db := setupTestDB(t)
	app := setupIntegrationApp(t, db)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
