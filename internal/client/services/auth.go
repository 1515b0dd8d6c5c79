// Package services contains application services for the CloudSafe client:
// the logic behind each view, sitting between the CLI and the resource
// gateway. Services validate input locally, call the gateway, and keep the
// caller's local state consistent with what the backend confirmed.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudsafe/cloudsafe/internal/client/api"
	"github.com/cloudsafe/cloudsafe/internal/client/session"
	"github.com/cloudsafe/cloudsafe/internal/common"
)

// AuthService handles sign-up, sign-in and sign-out.
//
// Contract:
//   - Login: authenticate and persist the session (token + subject id)
//     atomically on success.
//   - Register: validate the form locally first; invalid input returns
//     common.ErrValidationFailed without any network round trip.
//   - Logout: clear the persisted session.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) error
	Register(ctx context.Context, email string, password []byte, fullName string) error
	Logout(ctx context.Context) error
}

type authService struct {
	gateway api.Gateway
	store   session.Store
}

func NewAuthService(gateway api.Gateway, store session.Store) AuthService {
	return &authService{gateway: gateway, store: store}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: password must not be empty", common.ErrValidationFailed)
	}

	token, err := a.gateway.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.store.Save(ctx, session.Session{Token: token, SubjectID: email}); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

func (a *authService) Register(ctx context.Context, email string, password []byte, fullName string) error {
	if err := validateEmail(email); err != nil {
		return err
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", common.ErrValidationFailed)
	}
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("%w: full name must not be empty", common.ErrValidationFailed)
	}

	if err := a.gateway.Register(ctx, email, string(password), fullName); err != nil {
		return err
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Clear(ctx)
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return fmt.Errorf("%w: invalid email address", common.ErrValidationFailed)
	}
	return nil
}
