package access

import (
	"context"
	"time"

	"designshop/internal/domain"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UserTypes(ctx context.Context, userID int64) ([]domain.UserTypeID, error)
}

// Cache is satisfied by *cache.Redis.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
