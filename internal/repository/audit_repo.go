package repository

import (
	"context"

	"designshop/internal/domain"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, l *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// Recent returns the newest rows first with the actor username and the
// username currently behind entity_id, if any.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	var out []domain.AuditEntry
	err := r.db.WithContext(ctx).
		Table("audit_logs l").
		Select("l.*, COALESCE(a.username, '') AS actor_username, COALESCE(t.username, '') AS entity_username").
		Joins("LEFT JOIN users a ON a.id = l.actor_user_id").
		Joins("LEFT JOIN users t ON t.id = l.entity_id").
		Order("l.created_at DESC, l.id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
