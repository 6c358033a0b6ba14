package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"designshop/internal/domain"
	"designshop/internal/modules/access"
	"designshop/internal/pkg/logger"
	"designshop/internal/pkg/validator"

	"golang.org/x/crypto/bcrypt"
)

type jwtService interface {
	GenerateToken(userID int64, username string) (string, error)
}

// Service registers users and issues bearer tokens. Everything about what a
// user may do is resolved per request by access.Resolver, not carried in the
// token.
type Service struct {
	users UserStore
	jwt   jwtService
	cost  int
}

type LoginResult struct {
	User        *UserPublic
	AccessToken string
}

func NewService(users UserStore, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt, cost: bcrypt.DefaultCost}
}

// Register creates a regular user holding the customer type.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validator.Validate(req); errs != nil {
		logger.FromContext(ctx).Debug("registration rejected", "fields", errs)
		return nil, ErrMissingFields
	}

	if err := s.ensureUnique(ctx, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       domain.RoleRegular,
	}
	if err := s.users.Create(ctx, u, domain.UserTypeCustomer); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Service) ensureUnique(ctx context.Context, username, email string) error {
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if !taken {
		taken, err = s.users.ExistsByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
	}
	if taken {
		return ErrUserExists
	}
	return nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.FromContext(ctx).Info("login failed", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	types, err := s.users.UserTypes(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load user types: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResult{
		User:        publicUser(user, user.RoleID, types),
		AccessToken: token,
	}, nil
}

// Me describes the caller, or returns nil for anonymous requests.
func (s *Service) Me(ctx context.Context, caller *access.Caller) (*UserPublic, error) {
	if caller == nil {
		return nil, nil
	}
	user, err := s.users.GetByID(ctx, caller.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", caller.UserID, err)
	}
	return publicUser(user, caller.Role, caller.UserTypes), nil
}

func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := s.users.ExistsByUsername(ctx, strings.TrimSpace(username))
	return !taken, err
}

func (s *Service) EmailAvailable(ctx context.Context, email string) (bool, error) {
	taken, err := s.users.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	return !taken, err
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func publicUser(u *domain.User, role domain.RoleID, types []domain.UserTypeID) *UserPublic {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.Name())
	}
	return &UserPublic{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      role.Name(),
		UserTypes: names,
	}
}
