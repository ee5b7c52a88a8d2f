package users

import (
	"context"

	"github.com/dmitrijs2005/talentbridge/internal/server/models"
)

// Repository persists User records. Email lookups expect a normalized address.
type Repository interface {
	Create(ctx context.Context, user *models.NewUser) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetVerified(ctx context.Context, id string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
