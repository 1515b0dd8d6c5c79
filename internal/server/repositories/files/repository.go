package files

import (
	"context"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/server/models"
)

// TypeUsage is the aggregate size of completed files sharing a name
// extension.
type TypeUsage struct {
	Type      string
	SizeBytes int64
}

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	MarkCompleted(ctx context.Context, userID, storageKey string, sizeBytes int64, uploadedAt time.Time) (*models.File, error)
	ListCompleted(ctx context.Context, userID string) ([]*models.File, error)
	GetByStorageKey(ctx context.Context, userID, storageKey string) (*models.File, error)
	DeleteByStorageKey(ctx context.Context, userID, storageKey string) error
	Totals(ctx context.Context, userID string) (count int, sizeBytes int64, err error)
	UsageByType(ctx context.Context, userID string) ([]TypeUsage, error)
}
