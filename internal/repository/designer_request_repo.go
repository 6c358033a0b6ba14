package repository

import (
	"context"
	"errors"
	"time"

	"designshop/internal/domain"

	"gorm.io/gorm"
)

// ErrStale is returned when a conditional update matched no row because the
// row left the expected state.
var ErrStale = errors.New("row is no longer in the expected state")

type DesignerRequestRepository struct {
	db *gorm.DB
}

func NewDesignerRequestRepository(db *gorm.DB) *DesignerRequestRepository {
	return &DesignerRequestRepository{db: db}
}

// Create fails with domain.ErrConflict if the user already has a pending
// request and the store enforces the partial unique index.
func (r *DesignerRequestRepository) Create(ctx context.Context, req *domain.DesignerRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if IsUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *DesignerRequestRepository) GetByID(ctx context.Context, id int64) (*domain.DesignerRequest, error) {
	var req domain.DesignerRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

func (r *DesignerRequestRepository) HasPending(ctx context.Context, userID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.DesignerRequest{}).
		Where("user_id = ? AND status = ?", userID, domain.DesignerRequestPending).
		Count(&n).Error
	return n > 0, err
}

// Latest returns the user's most recent request or nil.
func (r *DesignerRequestRepository) Latest(ctx context.Context, userID int64) (*domain.DesignerRequest, error) {
	var reqs []domain.DesignerRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&reqs).Error
	if err != nil || len(reqs) == 0 {
		return nil, err
	}
	return &reqs[0], nil
}

// ListPending returns pending requests oldest first, with requester identity.
func (r *DesignerRequestRepository) ListPending(ctx context.Context) ([]domain.PendingDesignerRequest, error) {
	var out []domain.PendingDesignerRequest
	err := r.db.WithContext(ctx).
		Table("designer_requests dr").
		Select("dr.*, u.username, u.email").
		Joins("JOIN users u ON u.id = dr.user_id").
		Where("dr.status = ?", domain.DesignerRequestPending).
		Order("dr.created_at ASC, dr.id ASC").
		Find(&out).Error
	return out, err
}

func resolve(tx *gorm.DB, id, reviewerID int64, status domain.DesignerRequestStatus, at time.Time) error {
	res := tx.Model(&domain.DesignerRequest{}).
		Where("id = ? AND status = ?", id, domain.DesignerRequestPending).
		Updates(map[string]any{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// Approve resolves a pending request and grants the designer user type in
// one transaction. The grant is insert-if-absent.
func (r *DesignerRequestRepository) Approve(ctx context.Context, req *domain.DesignerRequest, reviewerID int64, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := resolve(tx, req.ID, reviewerID, domain.DesignerRequestApproved, at); err != nil {
			return err
		}
		return EnsureUserType(tx, req.UserID, domain.UserTypeDesigner)
	})
}

func (r *DesignerRequestRepository) Deny(ctx context.Context, req *domain.DesignerRequest, reviewerID int64, at time.Time) error {
	return resolve(r.db.WithContext(ctx), req.ID, reviewerID, domain.DesignerRequestDenied, at)
}
