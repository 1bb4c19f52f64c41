package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

var mumbai = domain.GeoPoint{Lat: 19.0760, Lon: 72.8777}

func cam(id, lat, lon string) domain.Camera {
	return domain.Camera{ID: id, Latitude: lat, Longitude: lon, Status: "Working"}
}

func TestFilterByDistance_KeepsWithinRadius(t *testing.T) {
	cams := []domain.Camera{
		cam("inside", "19.0832", "72.8777"),  // ~0.8 km north
		cam("outside", "19.1000", "72.8777"), // ~2.7 km north
		cam("center", "19.0760", "72.8777"),
	}

	got, stats, err := filterByDistance(context.Background(), cams, mumbai, 1.0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "inside" || got[1].ID != "center" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].CameraID != "inside" {
		t.Errorf("camera_id not populated: %q", got[0].CameraID)
	}
	if got[0].Distance < 0.79 || got[0].Distance > 0.81 {
		t.Errorf("distance = %v, want ~0.797", got[0].Distance)
	}
	if got[1].Distance != 0 {
		t.Errorf("center distance = %v, want 0", got[1].Distance)
	}
	if stats.Outside != 1 || stats.Malformed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestFilterByDistance_DropsMalformed(t *testing.T) {
	cams := []domain.Camera{
		cam("blank", "", "72.8777"),
		cam("text", "north", "72.8777"),
		cam("range", "91", "72.8777"),
		cam("lon-range", "19.0760", "-181"),
		cam("padded", " 19.0761 ", "\t72.8778"),
	}

	got, stats, err := filterByDistance(context.Background(), cams, mumbai, 1.0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "padded" {
		t.Fatalf("expected only the padded record, got %v", got)
	}
	if stats.Malformed != 4 {
		t.Errorf("malformed = %d, want 4", stats.Malformed)
	}
}

func TestFilterByDistance_BoundaryIsInclusive(t *testing.T) {
	cams := []domain.Camera{cam("c", "19.0832", "72.8777")}
	first, _, _ := filterByDistance(context.Background(), cams, mumbai, 10, 0)
	if len(first) != 1 {
		t.Fatal("setup: expected one result")
	}

	got, _, _ := filterByDistance(context.Background(), cams, mumbai, first[0].Distance, 0)
	if len(got) != 1 {
		t.Errorf("camera exactly at the radius should be kept")
	}
}

func TestFilterByDistance_ParallelMatchesSequential(t *testing.T) {
	cams := make([]domain.Camera, 0, 500)
	for i := 0; i < 500; i++ {
		lat := 19.0760 + float64(i-250)*0.0001
		cams = append(cams, cam(fmt.Sprintf("c%d", i), fmt.Sprintf("%.6f", lat), "72.8777"))
	}
	cams[17].Latitude = "bogus"

	seq, seqStats, _ := filterByDistance(context.Background(), cams, mumbai, 1.5, 0)
	par, parStats, _ := filterByDistance(context.Background(), cams, mumbai, 1.5, 10)

	if len(seq) != len(par) {
		t.Fatalf("sequential=%d parallel=%d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i].ID != par[i].ID || seq[i].Distance != par[i].Distance {
			t.Fatalf("mismatch at %d: %s/%v vs %s/%v", i, seq[i].ID, seq[i].Distance, par[i].ID, par[i].Distance)
		}
	}
	if seqStats != parStats {
		t.Errorf("stats differ: %+v vs %+v", seqStats, parStats)
	}
}

func TestFilterByDistance_StopsWhenContextDone(t *testing.T) {
	cams := make([]domain.Camera, 100)
	for i := range cams {
		cams[i] = cam(fmt.Sprintf("c%d", i), "19.0760", "72.8777")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, threshold := range []int{0, 10} {
		got, _, err := filterByDistance(ctx, cams, mumbai, 1, threshold)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("threshold %d: expected context.Canceled, got %v", threshold, err)
		}
		if got != nil {
			t.Errorf("threshold %d: expected no results, got %d", threshold, len(got))
		}
	}
}
