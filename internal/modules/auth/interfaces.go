package auth

import (
	"context"

	"designshop/internal/domain"
)

// UserStore is the subset of the user repository auth needs.
type UserStore interface {
	Create(ctx context.Context, u *domain.User, types ...domain.UserTypeID) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UserTypes(ctx context.Context, userID int64) ([]domain.UserTypeID, error)
}
