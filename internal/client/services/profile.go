package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudsafe/cloudsafe/internal/client/api"
	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/client/session"
	"github.com/cloudsafe/cloudsafe/internal/common"
)

// ProfileService backs the account view.
type ProfileService interface {
	Fetch(ctx context.Context, sess session.Session) (models.Profile, error)
	Update(ctx context.Context, sess session.Session, fullName string) (models.Profile, error)
}

type profileService struct {
	gateway api.Gateway
}

func NewProfileService(gateway api.Gateway) ProfileService {
	return &profileService{gateway: gateway}
}

func (s *profileService) Fetch(ctx context.Context, sess session.Session) (models.Profile, error) {
	p, err := s.gateway.FetchProfile(ctx, sess)
	if err != nil {
		return models.Profile{}, fmt.Errorf("error fetching profile: %w", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, sess session.Session, fullName string) (models.Profile, error) {
	if strings.TrimSpace(fullName) == "" {
		return models.Profile{}, fmt.Errorf("%w: full name must not be empty", common.ErrValidationFailed)
	}

	p, err := s.gateway.UpdateProfile(ctx, sess, strings.TrimSpace(fullName))
	if err != nil {
		return models.Profile{}, fmt.Errorf("error updating profile: %w", err)
	}
	return p, nil
}
