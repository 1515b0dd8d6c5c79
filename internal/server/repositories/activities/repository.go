package activities

import (
	"context"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/server/models"
)

// TrendPoint is one day of activity counters.
type TrendPoint struct {
	Day       time.Time
	Uploads   int
	Downloads int
}

type Repository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error)
	TrendSince(ctx context.Context, userID string, since time.Time) ([]TrendPoint, error)
}
