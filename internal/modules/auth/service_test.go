package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"designshop/internal/domain"
	"designshop/internal/middleware"
	"designshop/internal/modules/access"
	"designshop/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User, types ...domain.UserTypeID) error {
	args := m.Called(ctx, u, types)
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UserTypes(ctx context.Context, userID int64) ([]domain.UserTypeID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserTypeID), args.Error(1)
}

func newTestService(repo *mockUserRepo) *Service {
	s := NewService(repo, jwt.New("test-secret", time.Hour))
	s.cost = bcrypt.MinCost
	return s
}

func TestRegister_CreatesRegularCustomer(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
	repo.On("ExistsByUsername", ctx, "ana").Return(false, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User"), []domain.UserTypeID{domain.UserTypeCustomer}).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 42
		}).
		Return(nil)

	u, err := svc.Register(ctx, RegisterRequest{Username: " ana ", Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), u.ID)
	assert.Equal(t, "ana", u.Username)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, domain.RoleRegular, u.RoleID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
	repo.AssertExpectations(t)
}

func TestRegister_Rejections(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "ana", Email: "not-an-email", Password: "secret1"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, RegisterRequest{Username: "ana", Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrMissingFields)

	repo.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
	repo.On("ExistsByUsername", ctx, "ana").Return(true, nil)
	_, err = svc.Register(ctx, RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_RaceLostToUniqueIndex(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("ExistsByEmail", ctx, "ana@example.com").Return(false, nil)
	repo.On("ExistsByUsername", ctx, "ana").Return(false, nil)
	repo.On("Create", ctx, mock.Anything, mock.Anything).Return(domain.ErrConflict)

	_, err := svc.Register(ctx, RegisterRequest{Username: "ana", Email: "ana@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLogin(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{ID: 5, Username: "dee", Email: "dee@example.com", PasswordHash: string(hash), RoleID: domain.RoleRegular}

	repo.On("GetByEmail", ctx, "dee@example.com").Return(user, nil)
	repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound)
	repo.On("UserTypes", ctx, int64(5)).Return([]domain.UserTypeID{domain.UserTypeCustomer, domain.UserTypeDesigner}, nil)

	res, err := svc.Login(ctx, LoginRequest{Email: "dee@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "regular", res.User.Role)
	assert.Equal(t, []string{"customer", "designer"}, res.User.UserTypes)

	claims, err := jwt.New("test-secret", time.Hour).ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)

	_, err = svc.Login(ctx, LoginRequest{Email: "dee@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestMe(t *testing.T) {
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	ctx := context.Background()

	me, err := svc.Me(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, me)

	repo.On("GetByID", ctx, int64(3)).Return(&domain.User{ID: 3, Username: "mgr", Email: "mgr@example.com", RoleID: domain.RoleManagement}, nil)
	me, err = svc.Me(ctx, &access.Caller{UserID: 3, Role: domain.RoleManagement})
	require.NoError(t, err)
	assert.Equal(t, "management", me.Role)
	assert.Equal(t, "mgr@example.com", me.Email)
	assert.NotNil(t, me.UserTypes)
}

func TestHandler_MeIsNullWhenAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := new(mockUserRepo)
	svc := newTestService(repo)
	jwtSvc := jwt.New("test-secret", time.Hour)

	r := gin.New()
	group := r.Group("/api/auth", middleware.OptionalJWTAuth(jwtSvc))
	NewHandler(svc).RegisterRoutes(group)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "null", string(env["data"]))

	repo.On("ExistsByUsername", mock.Anything, "taken").Return(true, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/check-username/taken", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":false`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
