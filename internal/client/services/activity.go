package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/client/api"
	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/client/session"
)

// ActivityFilter narrows the fetched history for display. Zero values mean
// "no constraint". Filtering and sorting happen client-side only; the entries
// themselves are never mutated.
type ActivityFilter struct {
	From   time.Time
	To     time.Time
	Action string
}

// Sort orders accepted by SortActivities.
const (
	SortDateDesc = "date-desc"
	SortDateAsc  = "date-asc"
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
)

// ActivityService backs the activity-history view.
type ActivityService interface {
	Fetch(ctx context.Context, sess session.Session) ([]models.ActivityEntry, error)
}

type activityService struct {
	gateway api.Gateway
}

func NewActivityService(gateway api.Gateway) ActivityService {
	return &activityService{gateway: gateway}
}

func (s *activityService) Fetch(ctx context.Context, sess session.Session) ([]models.ActivityEntry, error) {
	entries, err := s.gateway.FetchActivity(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("error fetching activity log: %w", err)
	}
	return entries, nil
}

// FilterActivities returns the entries matching f, preserving input order.
func FilterActivities(entries []models.ActivityEntry, f ActivityFilter) []models.ActivityEntry {
	out := make([]models.ActivityEntry, 0, len(entries))
	for _, e := range entries {
		if !f.From.IsZero() && e.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Timestamp.After(f.To) {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortActivities sorts a copy of entries by the given order. Unknown orders
// fall back to newest-first.
func SortActivities(entries []models.ActivityEntry, order string) []models.ActivityEntry {
	out := make([]models.ActivityEntry, len(entries))
	copy(out, entries)

	switch order {
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	case SortNameAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].FileName) < strings.ToLower(out[j].FileName)
		})
	case SortNameDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].FileName) > strings.ToLower(out[j].FileName)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	}
	return out
}
