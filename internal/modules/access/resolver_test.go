package access

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"designshop/internal/domain"
	"designshop/internal/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserStore) UserTypes(ctx context.Context, userID int64) ([]domain.UserTypeID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserTypeID), args.Error(1)
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dest any) error {
	b, ok := c.data[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func TestCallerPredicates(t *testing.T) {
	admin := &Caller{Role: domain.RoleAdministrator}
	mgr := &Caller{Role: domain.RoleManagement}
	designer := &Caller{Role: domain.RoleRegular, UserTypes: []domain.UserTypeID{domain.UserTypeCustomer, domain.UserTypeDesigner}}
	var nobody *Caller

	assert.True(t, admin.IsManagementOrAbove())
	assert.True(t, admin.IsAdministrator())
	assert.True(t, mgr.IsManagementOrAbove())
	assert.False(t, mgr.IsAdministrator())
	assert.False(t, designer.IsManagementOrAbove())
	assert.True(t, designer.IsDesigner())
	assert.True(t, designer.IsCustomer())
	assert.False(t, admin.IsDesigner())
	assert.False(t, nobody.IsManagementOrAbove())
	assert.False(t, nobody.IsDesigner())
	assert.Equal(t, []string{"customer", "designer"}, designer.UserTypeNames())
}

func TestResolve_UnknownUser(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByID", mock.Anything, int64(9)).Return(nil, domain.ErrNotFound)

	_, err := NewResolver(users, nil, time.Minute).Resolve(context.Background(), 9)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))

	_, err = NewResolver(users, nil, time.Minute).Resolve(context.Background(), 0)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestResolve_StoreFailureIsInternal(t *testing.T) {
	users := new(mockUserStore)
	users.On("GetByID", mock.Anything, int64(3)).Return(nil, errors.New("db down"))

	_, err := NewResolver(users, nil, time.Minute).Resolve(context.Background(), 3)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestResolve_CachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	users := new(mockUserStore)
	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5, Username: "ana", RoleID: domain.RoleRegular}, nil)
	users.On("UserTypes", mock.Anything, int64(5)).Return([]domain.UserTypeID{domain.UserTypeCustomer}, nil)

	r := NewResolver(users, newMemCache(), time.Minute)

	c, err := r.Resolve(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "ana", c.Username)
	assert.True(t, c.IsCustomer())

	_, err = r.Resolve(ctx, 5)
	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "GetByID", 1)

	r.Invalidate(ctx, 5)
	_, err = r.Resolve(ctx, 5)
	require.NoError(t, err)
	users.AssertNumberOfCalls(t, "GetByID", 2)
}
