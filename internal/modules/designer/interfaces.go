package designer

import (
	"context"
	"time"

	"designshop/internal/domain"
	"designshop/internal/modules/audit"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	HasUserType(ctx context.Context, userID int64, t domain.UserTypeID) (bool, error)
}

type RequestStore interface {
	Create(ctx context.Context, req *domain.DesignerRequest) error
	GetByID(ctx context.Context, id int64) (*domain.DesignerRequest, error)
	HasPending(ctx context.Context, userID int64) (bool, error)
	Latest(ctx context.Context, userID int64) (*domain.DesignerRequest, error)
	ListPending(ctx context.Context) ([]domain.PendingDesignerRequest, error)
	Approve(ctx context.Context, req *domain.DesignerRequest, reviewerID int64, at time.Time) error
	Deny(ctx context.Context, req *domain.DesignerRequest, reviewerID int64, at time.Time) error
}

type Ledger interface {
	Record(ctx context.Context, e audit.Event)
}

// CapabilityCache drops cached caller resolutions after a membership change.
type CapabilityCache interface {
	Invalidate(ctx context.Context, userIDs ...int64)
}
