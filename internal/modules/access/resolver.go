package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"designshop/internal/domain"
	"designshop/internal/pkg/cache"
	"designshop/internal/pkg/logger"
	"designshop/internal/pkg/metrics"
)

// Resolver turns an authenticated user id into a Caller. Results may be
// cached; every role or membership change must call Invalidate.
type Resolver struct {
	users UserStore
	cache Cache
	ttl   time.Duration
}

// NewResolver accepts a nil cache, in which case every call reads the store.
func NewResolver(users UserStore, c Cache, ttl time.Duration) *Resolver {
	return &Resolver{users: users, cache: c, ttl: ttl}
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("caps:user:%d", userID)
}

func (r *Resolver) Resolve(ctx context.Context, userID int64) (*Caller, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}

	if r.cache != nil {
		var c Caller
		err := r.cache.GetJSON(ctx, cacheKey(userID), &c)
		switch {
		case err == nil:
			metrics.CapabilityCache.WithLabelValues("hit").Inc()
			return &c, nil
		case errors.Is(err, cache.ErrMiss):
			metrics.CapabilityCache.WithLabelValues("miss").Inc()
		default:
			metrics.CapabilityCache.WithLabelValues("error").Inc()
			logger.FromContext(ctx).Warn("capability cache read failed", "user_id", userID, "err", err)
		}
	}

	u, err := r.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("resolve caller %d: %w", userID, err)
	}

	types, err := r.users.UserTypes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve caller %d types: %w", userID, err)
	}
	if types == nil {
		types = []domain.UserTypeID{}
	}

	c := &Caller{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.RoleID,
		UserTypes: types,
	}

	if r.cache != nil {
		if err := r.cache.SetJSON(ctx, cacheKey(userID), c, r.ttl); err != nil {
			logger.FromContext(ctx).Warn("capability cache write failed", "user_id", userID, "err", err)
		}
	}
	return c, nil
}

// Invalidate drops any cached resolution for the given users.
func (r *Resolver) Invalidate(ctx context.Context, userIDs ...int64) {
	if r.cache == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, cacheKey(id))
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		logger.FromContext(ctx).Warn("capability cache invalidation failed", "keys", keys, "err", err)
	}
}
