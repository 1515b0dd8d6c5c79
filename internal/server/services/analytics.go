package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/server/models"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/activities"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/files"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/repomanager"
)

// trendWindowDays is the length of the upload/download trend returned by
// Summary.
const trendWindowDays = 7

// defaultActivityLimit caps the activity log page.
const defaultActivityLimit = 50

// nowFn is a test seam.
var nowFn = time.Now

// AnalyticsSummary is the pre-computed aggregate the client renders as-is.
type AnalyticsSummary struct {
	TotalFiles     int
	TotalSizeBytes int64
	UploadTrend    []activities.TrendPoint
	StorageByType  []files.TypeUsage
}

// AnalyticsService aggregates storage counters and the activity log.
type AnalyticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAnalyticsService(db *sql.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m}
}

// Summary computes the user's storage totals, the last week's transfer
// trend and per-type usage. Days without activity appear as zero points so
// the client can plot a continuous series.
func (s *AnalyticsService) Summary(ctx context.Context, userID string) (*AnalyticsSummary, error) {
	fileRepo := s.repomanager.Files(s.db)
	activityRepo := s.repomanager.Activities(s.db)

	count, size, err := fileRepo.Totals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error computing totals: %w", err)
	}

	usage, err := fileRepo.UsageByType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error computing usage: %w", err)
	}

	windowStart := startOfDay(nowFn()).AddDate(0, 0, -(trendWindowDays - 1))
	trend, err := activityRepo.TrendSince(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("error computing trend: %w", err)
	}

	return &AnalyticsSummary{
		TotalFiles:     count,
		TotalSizeBytes: size,
		UploadTrend:    fillTrendGaps(trend, windowStart, trendWindowDays),
		StorageByType:  usage,
	}, nil
}

// RecentActivity returns the user's latest activity rows, newest first.
func (s *AnalyticsService) RecentActivity(ctx context.Context, userID string) ([]*models.Activity, error) {
	activityRepo := s.repomanager.Activities(s.db)
	entries, err := activityRepo.ListByUser(ctx, userID, defaultActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing activities: %w", err)
	}
	return entries, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fillTrendGaps expands sparse per-day counters into a dense window of
// exactly days points starting at windowStart.
func fillTrendGaps(sparse []activities.TrendPoint, windowStart time.Time, days int) []activities.TrendPoint {
	byDay := make(map[time.Time]activities.TrendPoint, len(sparse))
	for _, p := range sparse {
		byDay[startOfDay(p.Day)] = p
	}

	dense := make([]activities.TrendPoint, 0, days)
	for i := 0; i < days; i++ {
		day := windowStart.AddDate(0, 0, i)
		if p, ok := byDay[day]; ok {
			p.Day = day
			dense = append(dense, p)
		} else {
			dense = append(dense, activities.TrendPoint{Day: day})
		}
	}
	return dense
}
