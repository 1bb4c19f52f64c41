package ports

import (
	"context"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// CameraRepository reads camera records from the camera store.
type CameraRepository interface {
	// FindInBounds returns every camera whose stored coordinates fall inside
	// the box. It may return extra rows; it must never omit one that is inside.
	FindInBounds(ctx context.Context, box domain.Bounds) ([]domain.Camera, error)
}
