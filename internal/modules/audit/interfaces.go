package audit

import (
	"context"

	"designshop/internal/domain"
)

type Store interface {
	Insert(ctx context.Context, l *domain.AuditLog) error
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}
