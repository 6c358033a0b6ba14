package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"designshop/internal/domain"
	"designshop/internal/modules/access"
	"designshop/internal/modules/audit"
	"designshop/internal/pkg/logger"
	"designshop/internal/pkg/metrics"
	"designshop/internal/pkg/validator"
	"designshop/internal/repository"
)

const defaultPaymentMethod = "card"

type Service struct {
	orders   OrderStore
	products ProductStore
	ledger   Ledger
	now      func() time.Time
}

func NewService(orders OrderStore, products ProductStore, ledger Ledger) *Service {
	return &Service{
		orders:   orders,
		products: products,
		ledger:   ledger,
		now:      time.Now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Create places an order with a single customized item. The unit price is
// snapshotted from the product at this moment.
func (s *Service) Create(ctx context.Context, caller *access.Caller, req CreateOrderRequest) (*domain.Order, error) {
	if caller == nil {
		return nil, access.ErrNotAuthenticated
	}
	if !caller.IsCustomer() {
		return nil, ErrCustomerRequired
	}
	if errs := validator.Validate(req); errs != nil {
		logger.FromContext(ctx).Debug("order payload rejected", "fields", errs)
		return nil, ErrInvalidOrderData
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", req.ProductID, err)
	}

	item := domain.OrderItem{
		ProductID: product.ID,
		Quantity:  req.Quantity,
		UnitPrice: product.BasePrice,
		Customization: domain.Customization{
			CustomText: optionalText(req.CustomText),
			TextColor:  optionalText(req.TextColor),
			TextLayer: domain.Rect{
				X: req.TextPositionX, Y: req.TextPositionY,
				Width: req.TextWidth, Height: req.TextHeight,
			},
			CustomImage: optionalText(req.CustomImage),
			ImageLayer: domain.Rect{
				X: req.ImagePositionX, Y: req.ImagePositionY,
				Width: req.ImageWidth, Height: req.ImageHeight,
			},
		},
	}

	o := &domain.Order{
		CustomerID:    caller.UserID,
		OrderDate:     s.now().UTC(),
		TotalAmount:   round2(product.BasePrice * float64(req.Quantity)),
		Status:        domain.OrderPendingDesign,
		PaymentMethod: domain.PaymentMethodPending,
		Items:         []domain.OrderItem{item},
	}
	if err := s.orders.Create(ctx, o); err != nil {
		metrics.OrderTransitions.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("create order: %w", err)
	}
	metrics.OrderTransitions.WithLabelValues("create", "ok").Inc()

	s.ledger.Record(ctx, audit.Event{
		ActorID:     caller.UserID,
		EntityType:  domain.EntityOrder,
		EntityID:    audit.ID(o.ID),
		Action:      audit.ActionCreated,
		TargetLabel: audit.OrderLabel(o.ID),
		NewValue:    audit.Str(string(o.Status)),
	})
	return o, nil
}

// MyOrders returns the caller's orders, newest first.
func (s *Service) MyOrders(ctx context.Context, caller *access.Caller) ([]domain.OrderView, error) {
	if caller == nil {
		return nil, access.ErrNotAuthenticated
	}
	return s.list(ctx, repository.OrderFilter{CustomerID: caller.UserID})
}

// PendingDesign is the designer review queue, oldest first.
func (s *Service) PendingDesign(ctx context.Context, caller *access.Caller) ([]domain.OrderView, error) {
	if !caller.IsDesigner() {
		return nil, ErrDesignerRequired
	}
	return s.list(ctx, repository.OrderFilter{
		Status:  domain.OrderPendingDesign,
		OrderBy: "o.order_date ASC",
	})
}

// PendingShipment is the shipping queue, oldest payment first.
func (s *Service) PendingShipment(ctx context.Context, caller *access.Caller) ([]domain.OrderView, error) {
	if !caller.IsManagementOrAbove() {
		return nil, ErrManagementRequired
	}
	return s.list(ctx, repository.OrderFilter{
		Status:  domain.OrderPaid,
		OrderBy: "o.paid_at ASC",
	})
}

func (s *Service) All(ctx context.Context, caller *access.Caller) ([]domain.OrderView, error) {
	if !caller.IsManagementOrAbove() {
		return nil, ErrManagementRequired
	}
	return s.list(ctx, repository.OrderFilter{})
}

func (s *Service) list(ctx context.Context, f repository.OrderFilter) ([]domain.OrderView, error) {
	out, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.OrderView{}
	}
	return out, nil
}

// readable loads an order and applies the read guard.
func (s *Service) readable(ctx context.Context, caller *access.Caller, id int64) (*domain.Order, error) {
	if caller == nil {
		return nil, access.ErrNotAuthenticated
	}
	o, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanRead(caller, o) {
		return nil, ErrOrderAccessDenied
	}
	return o, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", id, err)
	}
	return o, nil
}

// Get returns the order with its items.
func (s *Service) Get(ctx context.Context, caller *access.Caller, id int64) (*domain.Order, error) {
	o, err := s.readable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	items, err := s.orders.Items(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("load order %d items: %w", id, err)
	}
	o.Items = items
	return o, nil
}

func (s *Service) Status(ctx context.Context, caller *access.Caller, id int64) (domain.OrderStatus, error) {
	o, err := s.readable(ctx, caller, id)
	if err != nil {
		return "", err
	}
	return o.Status, nil
}

func (s *Service) Items(ctx context.Context, caller *access.Caller, id int64) ([]domain.OrderItem, error) {
	o, err := s.readable(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	items, err := s.orders.Items(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("load order %d items: %w", id, err)
	}
	if items == nil {
		items = []domain.OrderItem{}
	}
	return items, nil
}

func (s *Service) ApproveDesign(ctx context.Context, caller *access.Caller, id int64) (*domain.Order, error) {
	return s.apply(ctx, caller, id, ApproveDesign, func(now time.Time) map[string]any {
		return map[string]any{
			"designer_id":          caller.UserID,
			"designer_reviewed_at": now,
		}
	})
}

// RejectDesign records the rejection. The order stays rejected; there is no
// resubmission path.
func (s *Service) RejectDesign(ctx context.Context, caller *access.Caller, id int64, reason *string) (*domain.Order, error) {
	reason = optionalText(reason)
	if errs := validator.Validate(RejectDesignRequest{Reason: reason}); errs != nil {
		return nil, ErrInvalidReason
	}
	return s.apply(ctx, caller, id, RejectDesign, func(now time.Time) map[string]any {
		return map[string]any{
			"designer_id":          caller.UserID,
			"designer_reviewed_at": now,
			"rejection_reason":     reason,
		}
	})
}

// Pay marks the order paid. The payment itself is a trusted upstream signal.
func (s *Service) Pay(ctx context.Context, caller *access.Caller, id int64, method string) (*domain.Order, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		method = defaultPaymentMethod
	}
	if errs := validator.Validate(PayRequest{PaymentMethod: method}); errs != nil {
		return nil, ErrInvalidPaymentMethod
	}
	return s.apply(ctx, caller, id, Pay, func(now time.Time) map[string]any {
		return map[string]any{
			"payment_method": method,
			"paid_at":        now,
		}
	})
}

func (s *Service) Ship(ctx context.Context, caller *access.Caller, id int64) (*domain.Order, error) {
	return s.apply(ctx, caller, id, Ship, func(now time.Time) map[string]any {
		return map[string]any{"shipped_at": now}
	})
}

// SetStatus is the administrative override.
func (s *Service) SetStatus(ctx context.Context, caller *access.Caller, id int64, status domain.OrderStatus) (*domain.Order, error) {
	return s.apply(ctx, caller, id, Override(status), nil)
}

var auditActions = map[string]string{
	ApproveDesign.Name: audit.ActionDesignApproved,
	RejectDesign.Name:  audit.ActionDesignRejected,
	Pay.Name:           audit.ActionPaid,
	Ship.Name:          audit.ActionShipped,
	"override":         audit.ActionStatusOverridden,
}

// apply runs the guard table and persists the move with a conditional
// update, so two writers racing from the same status cannot both win.
func (s *Service) apply(ctx context.Context, caller *access.Caller, id int64, action Action, fields func(time.Time) map[string]any) (o *domain.Order, err error) {
	defer func() {
		metrics.OrderTransitions.WithLabelValues(action.Name, transitionResult(err)).Inc()
	}()

	if caller == nil {
		return nil, access.ErrNotAuthenticated
	}
	o, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := o.Status
	next, err := Transition(prev, action, caller, o)
	if err != nil {
		return nil, err
	}

	if action.IsOverride() {
		if err := s.orders.SetStatus(ctx, id, next); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, fmt.Errorf("override order %d status: %w", id, err)
		}
	} else {
		updates := fields(s.now().UTC())
		updates["status"] = next
		ok, err := s.orders.Transition(ctx, id, prev, updates)
		if err != nil {
			return nil, fmt.Errorf("%s order %d: %w", action.Name, id, err)
		}
		if !ok {
			return nil, staleError(action)
		}
	}

	s.ledger.Record(ctx, audit.Event{
		ActorID:     caller.UserID,
		EntityType:  domain.EntityOrder,
		EntityID:    audit.ID(id),
		Action:      auditActions[action.Name],
		TargetLabel: audit.OrderLabel(id),
		OldValue:    audit.Str(string(prev)),
		NewValue:    audit.Str(string(next)),
	})

	if fresh, err := s.orders.GetByID(ctx, id); err == nil {
		return fresh, nil
	}
	o.Status = next
	return o, nil
}

// transitionResult separates business rejections from storage failures.
func transitionResult(err error) string {
	var de *domain.Error
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &de):
		return "rejected"
	default:
		return "error"
	}
}
