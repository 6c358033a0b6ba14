package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"designshop/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts the user together with its initial user type memberships.
func (r *UserRepository) Create(ctx context.Context, u *domain.User, types ...domain.UserTypeID) error {
	u.Email = normalizeEmail(u.Email)
	u.Username = strings.TrimSpace(u.Username)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Role").Create(u).Error; err != nil {
			if IsUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		for _, t := range types {
			m := domain.UserUserType{UserID: u.ID, UserTypeID: t}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		Count(&n).Error
	return n > 0, err
}

// UserTypes returns the membership set of a user, ordered by type id.
func (r *UserRepository) UserTypes(ctx context.Context, userID int64) ([]domain.UserTypeID, error) {
	var ids []domain.UserTypeID
	err := r.db.WithContext(ctx).Model(&domain.UserUserType{}).
		Where("user_id = ?", userID).
		Order("user_type_id").
		Pluck("user_type_id", &ids).Error
	return ids, err
}

func (r *UserRepository) HasUserType(ctx context.Context, userID int64, t domain.UserTypeID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.UserUserType{}).
		Where("user_id = ? AND user_type_id = ?", userID, t).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) SetRole(ctx context.Context, userID int64, role domain.RoleID) error {
	tx := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("role_id", role)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddUserType fails with domain.ErrConflict when the membership already exists.
func (r *UserRepository) AddUserType(ctx context.Context, userID int64, t domain.UserTypeID) error {
	m := domain.UserUserType{UserID: userID, UserTypeID: t}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if IsUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

// EnsureUserType inserts the membership unless it is already present.
func EnsureUserType(tx *gorm.DB, userID int64, t domain.UserTypeID) error {
	m := domain.UserUserType{UserID: userID, UserTypeID: t}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error
}

// RemoveUserType reports whether a membership row was deleted.
func (r *UserRepository) RemoveUserType(ctx context.Context, userID int64, t domain.UserTypeID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND user_type_id = ?", userID, t).
		Delete(&domain.UserUserType{})
	return tx.RowsAffected > 0, tx.Error
}

type userRoleRow struct {
	ID        int64
	Email     string
	Username  string
	RoleID    domain.RoleID
	RoleName  string
	CreatedAt time.Time
}

type membershipRow struct {
	UserID int64
	Name   string
}

// ListWithTypes returns every user with its role name and user type names,
// newest first.
func (r *UserRepository) ListWithTypes(ctx context.Context) ([]domain.UserWithTypes, error) {
	var rows []userRoleRow
	err := r.db.WithContext(ctx).Table("users u").
		Select("u.id, u.email, u.username, u.role_id, r.name AS role_name, u.created_at").
		Joins("JOIN roles r ON r.id = u.role_id").
		Order("u.created_at DESC, u.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var members []membershipRow
	err = r.db.WithContext(ctx).Table("user_user_types m").
		Select("m.user_id, t.name").
		Joins("JOIN user_types t ON t.id = m.user_type_id").
		Order("m.user_id, m.user_type_id").
		Scan(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	byUser := make(map[int64][]string, len(rows))
	for _, m := range members {
		byUser[m.UserID] = append(byUser[m.UserID], m.Name)
	}

	out := make([]domain.UserWithTypes, 0, len(rows))
	for _, row := range rows {
		types := byUser[row.ID]
		if types == nil {
			types = []string{}
		}
		out = append(out, domain.UserWithTypes{
			ID:        row.ID,
			Email:     row.Email,
			Username:  row.Username,
			RoleID:    row.RoleID,
			RoleName:  row.RoleName,
			CreatedAt: row.CreatedAt,
			UserTypes: types,
		})
	}
	return out, nil
}

// DeleteCascade removes the user and every row that references it in one
// transaction. Categories the user managed are handed to reassignTo.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID, reassignTo int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			name string
			run  func() *gorm.DB
		}{
			{"memberships", func() *gorm.DB {
				return tx.Where("user_id = ?", userID).Delete(&domain.UserUserType{})
			}},
			{"request reviewer", func() *gorm.DB {
				return tx.Model(&domain.DesignerRequest{}).
					Where("reviewed_by = ?", userID).
					Update("reviewed_by", nil)
			}},
			{"designer requests", func() *gorm.DB {
				return tx.Where("user_id = ?", userID).Delete(&domain.DesignerRequest{})
			}},
			{"audit logs", func() *gorm.DB {
				return tx.Where("actor_user_id = ?", userID).Delete(&domain.AuditLog{})
			}},
			{"reviews", func() *gorm.DB {
				return tx.Where("customer_id = ?", userID).Delete(&domain.Review{})
			}},
			{"order items", func() *gorm.DB {
				return tx.Where("order_id IN (?)",
					tx.Model(&domain.Order{}).Select("id").Where("customer_id = ?", userID),
				).Delete(&domain.OrderItem{})
			}},
			{"orders", func() *gorm.DB {
				return tx.Where("customer_id = ?", userID).Delete(&domain.Order{})
			}},
			{"order designer", func() *gorm.DB {
				return tx.Model(&domain.Order{}).
					Where("designer_id = ?", userID).
					Update("designer_id", nil)
			}},
			{"design templates", func() *gorm.DB {
				return tx.Where("designer_id = ?", userID).Delete(&domain.DesignTemplate{})
			}},
			{"managed categories", func() *gorm.DB {
				return tx.Model(&domain.Category{}).
					Where("manager_id = ?", userID).
					Update("manager_id", reassignTo)
			}},
		}

		for _, step := range steps {
			if err := step.run().Error; err != nil {
				return fmt.Errorf("delete user %d: %s: %w", userID, step.name, err)
			}
		}

		res := tx.Delete(&domain.User{}, userID)
		if res.Error != nil {
			return fmt.Errorf("delete user %d: %w", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
