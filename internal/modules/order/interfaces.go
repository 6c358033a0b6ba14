package order

import (
	"context"

	"designshop/internal/domain"
	"designshop/internal/modules/audit"
	"designshop/internal/repository"
)

type OrderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Items(ctx context.Context, orderIDs ...int64) ([]domain.OrderItem, error)
	List(ctx context.Context, f repository.OrderFilter) ([]domain.OrderView, error)
	Transition(ctx context.Context, id int64, expected domain.OrderStatus, updates map[string]any) (bool, error)
	SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error
}

type ProductStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type Ledger interface {
	Record(ctx context.Context, e audit.Event)
}
