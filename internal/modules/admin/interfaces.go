package admin

import (
	"context"

	"designshop/internal/domain"
	"designshop/internal/modules/audit"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListWithTypes(ctx context.Context) ([]domain.UserWithTypes, error)
	SetRole(ctx context.Context, userID int64, role domain.RoleID) error
	AddUserType(ctx context.Context, userID int64, t domain.UserTypeID) error
	RemoveUserType(ctx context.Context, userID int64, t domain.UserTypeID) (bool, error)
	DeleteCascade(ctx context.Context, userID, reassignTo int64) error
}

type Ledger interface {
	Record(ctx context.Context, e audit.Event)
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type CapabilityCache interface {
	Invalidate(ctx context.Context, userIDs ...int64)
}
