package admin

import (
	"context"
	"errors"
	"fmt"

	"designshop/internal/domain"
	"designshop/internal/modules/access"
	"designshop/internal/modules/audit"
	"designshop/internal/pkg/logger"
)

// Service holds the administrator-only user management operations.
type Service struct {
	users  UserStore
	ledger Ledger
	caps   CapabilityCache
}

func NewService(users UserStore, ledger Ledger, caps CapabilityCache) *Service {
	return &Service{users: users, ledger: ledger, caps: caps}
}

func requireAdmin(caller *access.Caller) error {
	if caller == nil {
		return access.ErrNotAuthenticated
	}
	if !caller.IsAdministrator() {
		return access.ErrAdministratorOnly
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID int64) {
	if s.caps != nil {
		s.caps.Invalidate(ctx, userID)
	}
}

func (s *Service) target(ctx context.Context, userID int64) (*domain.User, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", userID, err)
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, caller *access.Caller) ([]domain.UserWithTypes, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	return s.users.ListWithTypes(ctx)
}

// SetRole replaces the user's role. Memberships are left untouched.
func (s *Service) SetRole(ctx context.Context, caller *access.Caller, userID int64, role domain.RoleID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	u, err := s.target(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.SetRole(ctx, u.ID, role); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("set role of user %d: %w", u.ID, err)
	}
	s.invalidate(ctx, u.ID)

	s.ledger.Record(ctx, audit.Event{
		ActorID:     caller.UserID,
		EntityType:  domain.EntityUserRole,
		EntityID:    audit.ID(u.ID),
		Action:      audit.ActionUpdated,
		TargetLabel: u.Username,
		OldValue:    audit.Str(u.RoleID.Name()),
		NewValue:    audit.Str(role.Name()),
	})
	return nil
}

func (s *Service) AddUserType(ctx context.Context, caller *access.Caller, userID int64, t domain.UserTypeID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if !t.Valid() {
		return ErrInvalidUserType
	}
	u, err := s.target(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.AddUserType(ctx, u.ID, t); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return ErrTypeAlreadyHeld
		}
		return fmt.Errorf("add user type %d to user %d: %w", t, u.ID, err)
	}
	s.invalidate(ctx, u.ID)

	s.ledger.Record(ctx, audit.Event{
		ActorID:     caller.UserID,
		EntityType:  domain.EntityUserType,
		EntityID:    audit.ID(u.ID),
		Action:      audit.ActionAdded,
		TargetLabel: u.Username,
		NewValue:    audit.Str(t.Name()),
	})
	return nil
}

// RemoveUserType is idempotent: removing a type the user does not hold
// succeeds and writes no audit row.
func (s *Service) RemoveUserType(ctx context.Context, caller *access.Caller, userID int64, t domain.UserTypeID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if !t.Valid() {
		return ErrInvalidUserType
	}
	u, err := s.target(ctx, userID)
	if err != nil {
		return err
	}

	removed, err := s.users.RemoveUserType(ctx, u.ID, t)
	if err != nil {
		return fmt.Errorf("remove user type %d from user %d: %w", t, u.ID, err)
	}
	if !removed {
		return nil
	}
	s.invalidate(ctx, u.ID)

	s.ledger.Record(ctx, audit.Event{
		ActorID:     caller.UserID,
		EntityType:  domain.EntityUserType,
		EntityID:    audit.ID(u.ID),
		Action:      audit.ActionRemoved,
		TargetLabel: u.Username,
		OldValue:    audit.Str(t.Name()),
	})
	return nil
}

// DeleteUser erases the user and everything that references it. Categories
// they managed pass to the acting administrator. The user's own audit rows
// are deleted with them.
func (s *Service) DeleteUser(ctx context.Context, caller *access.Caller, userID int64) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if userID == caller.UserID {
		return ErrCannotSelfErase
	}
	u, err := s.target(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.DeleteCascade(ctx, u.ID, caller.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user %d: %w", u.ID, err)
	}
	s.invalidate(ctx, u.ID)

	logger.FromContext(ctx).Info("user deleted", "target_user_id", u.ID, "username", u.Username)
	s.ledger.Record(ctx, audit.Event{
		ActorID:     caller.UserID,
		EntityType:  domain.EntityUser,
		EntityID:    audit.ID(u.ID),
		Action:      audit.ActionDeleted,
		TargetLabel: u.Username,
	})
	return nil
}

// Logs returns the most recent ledger entries.
func (s *Service) Logs(ctx context.Context, caller *access.Caller) ([]domain.AuditEntry, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	entries, err := s.ledger.Recent(ctx, audit.DefaultLimit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	return entries, nil
}
