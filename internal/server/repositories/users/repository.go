package users

import (
	"context"

	"github.com/cloudsafe/cloudsafe/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateFullName(ctx context.Context, userID, fullName string) (*models.User, error)
}
