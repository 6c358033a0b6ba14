package repository

import (
	"context"
	"fmt"

	"designshop/internal/domain"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and its items atomically.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := o.Items
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for i := range items {
			items[i].OrderID = o.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// Items returns the order lines joined with product display fields.
func (r *OrderRepository) Items(ctx context.Context, orderIDs ...int64) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	if len(orderIDs) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.*, COALESCE(p.name, '') AS product_name, COALESCE(p.picture_url, '') AS picture_url").
		Joins("LEFT JOIN products p ON p.id = order_items.product_id").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.id").
		Find(&items).Error
	return items, err
}

// OrderFilter narrows a listing. Zero values mean "any".
type OrderFilter struct {
	CustomerID int64
	Status     domain.OrderStatus
	// OrderBy is a trusted column expression, never user input.
	OrderBy string
}

// List returns orders with customer and designer names, items attached.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]domain.OrderView, error) {
	q := r.db.WithContext(ctx).
		Table("orders o").
		Select("o.*, COALESCE(c.username, '') AS customer_name, COALESCE(d.username, '') AS designer_name").
		Joins("LEFT JOIN users c ON c.id = o.customer_id").
		Joins("LEFT JOIN users d ON d.id = o.designer_id")

	if f.CustomerID > 0 {
		q = q.Where("o.customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("o.status = ?", f.Status)
	}
	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "o.order_date DESC"
	}

	var views []domain.OrderView
	if err := q.Order(orderBy).Order("o.id").Find(&views).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if len(views) == 0 {
		return views, nil
	}

	ids := make([]int64, 0, len(views))
	idx := make(map[int64]int, len(views))
	for i, v := range views {
		ids = append(ids, v.ID)
		idx[v.ID] = i
	}
	items, err := r.Items(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	for _, it := range items {
		i := idx[it.OrderID]
		views[i].Items = append(views[i].Items, it)
	}
	return views, nil
}

// Transition applies updates only if the order is still in expected. It
// returns false when another writer moved the order first.
func (r *OrderRepository) Transition(ctx context.Context, id int64, expected domain.OrderStatus, updates map[string]any) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// SetStatus overwrites the status unconditionally.
func (r *OrderRepository) SetStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
