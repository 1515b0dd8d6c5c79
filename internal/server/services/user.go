// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the account profile.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/cloudsafe/cloudsafe/internal/server/auth"
	"github.com/cloudsafe/cloudsafe/internal/server/config"
	"github.com/cloudsafe/cloudsafe/internal/server/models"
	"github.com/cloudsafe/cloudsafe/internal/server/repositories/repomanager"
)

const uniqueViolationCode = "23505"

// UserService provides authentication and profile operations:
//   - Register: create accounts with bcrypt password hashes
//   - Login: verify credentials and mint a JWT
//   - Profile / UpdateProfile: read and change account data
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account. A duplicate email yields ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Email: email, FullName: fullName, PasswordHash: hash, Role: "user"}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password against the stored bcrypt hash and, on
// success, returns a signed token carrying the account email. A missing
// account and a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("error loading user: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Email, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}
	return token, nil
}

// Profile returns the account for email.
func (s *UserService) Profile(ctx context.Context, email string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the account's display name and returns the updated
// record.
func (s *UserService) UpdateProfile(ctx context.Context, email, fullName string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	updated, err := repo.UpdateFullName(ctx, user.ID, fullName)
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return updated, nil
}
