package services

import (
	"context"
	"fmt"

	"github.com/cloudsafe/cloudsafe/internal/client/api"
	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/client/session"
)

// AnalyticsService backs the analytics view. The aggregate is pre-computed by
// the backend; the client only fetches and renders it.
type AnalyticsService interface {
	Fetch(ctx context.Context, sess session.Session) (models.Analytics, error)
}

type analyticsService struct {
	gateway api.Gateway
}

func NewAnalyticsService(gateway api.Gateway) AnalyticsService {
	return &analyticsService{gateway: gateway}
}

func (s *analyticsService) Fetch(ctx context.Context, sess session.Session) (models.Analytics, error) {
	a, err := s.gateway.FetchAnalytics(ctx, sess)
	if err != nil {
		return models.Analytics{}, fmt.Errorf("error fetching analytics: %w", err)
	}
	return a, nil
}
