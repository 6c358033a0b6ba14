package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"designshop/internal/database"
	"designshop/internal/domain"
	"designshop/internal/modules/access"
	"designshop/internal/modules/audit"
	"designshop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	users    *repository.UserRepository
	orders   *repository.OrderRepository
	products *repository.ProductRepository
	auditLog *repository.AuditRepository
	resolver *access.Resolver
	svc      *Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:order_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		orders:   repository.NewOrderRepository(db),
		products: repository.NewProductRepository(db),
		auditLog: repository.NewAuditRepository(db),
	}
	f.resolver = access.NewResolver(f.users, nil, 0)
	f.svc = NewService(f.orders, f.products, audit.NewLedger(f.auditLog))
	return f
}

func (f *fixture) user(t *testing.T, name string, role domain.RoleID, types ...domain.UserTypeID) *access.Caller {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x", RoleID: role}
	require.NoError(t, f.users.Create(context.Background(), u, types...))
	c, err := f.resolver.Resolve(context.Background(), u.ID)
	require.NoError(t, err)
	return c
}

func (f *fixture) product(t *testing.T, price float64) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: "Mug", BasePrice: price}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func TestOrderLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	customer := f.user(t, "ana", domain.RoleRegular, domain.UserTypeCustomer)
	dsgn := f.user(t, "dee", domain.RoleRegular, domain.UserTypeDesigner)
	mgr := f.user(t, "mgr", domain.RoleManagement)
	p := f.product(t, 9.90)

	text := "Happy birthday"
	x := 12.5
	o, err := f.svc.Create(ctx, customer, CreateOrderRequest{
		ProductID: p.ID, Quantity: 2, CustomText: &text, TextPositionX: &x,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPendingDesign, o.Status)
	assert.Equal(t, 19.80, o.TotalAmount)
	assert.Equal(t, domain.PaymentMethodPending, o.PaymentMethod)

	queue, err := f.svc.PendingDesign(ctx, dsgn)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "ana", queue[0].CustomerName)

	o, err = f.svc.ApproveDesign(ctx, dsgn, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDesignApproved, o.Status)
	require.NotNil(t, o.DesignerID)
	assert.Equal(t, dsgn.UserID, *o.DesignerID)
	assert.NotNil(t, o.DesignerReviewedAt)

	// The designer loses visibility once the review is done.
	_, err = f.svc.Status(ctx, dsgn, o.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	o, err = f.svc.Pay(ctx, customer, o.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPaid, o.Status)
	assert.Equal(t, "card", o.PaymentMethod)
	assert.NotNil(t, o.PaidAt)

	_, err = f.svc.Pay(ctx, customer, o.ID, "card")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	shipping, err := f.svc.PendingShipment(ctx, mgr)
	require.NoError(t, err)
	require.Len(t, shipping, 1)

	o, err = f.svc.Ship(ctx, mgr, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderShipped, o.Status)
	assert.NotNil(t, o.ShippedAt)

	_, err = f.svc.Ship(ctx, mgr, o.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "Order is not ready for shipment", err.Error())

	full, err := f.svc.Get(ctx, customer, o.ID)
	require.NoError(t, err)
	require.Len(t, full.Items, 1)
	assert.Equal(t, 9.90, full.Items[0].UnitPrice)
	assert.Equal(t, "Mug", full.Items[0].ProductName)

	entries, err := audit.NewLedger(f.auditLog).Recent(ctx, 10)
	require.NoError(t, err)
	actions := make([]string, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
		assert.Equal(t, audit.OrderLabel(o.ID), e.TargetUsername)
	}
	assert.Equal(t, []string{audit.ActionShipped, audit.ActionPaid, audit.ActionDesignApproved, audit.ActionCreated}, actions)
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	customer := f.user(t, "ana", domain.RoleRegular, domain.UserTypeCustomer)
	mgr := f.user(t, "mgr", domain.RoleManagement)
	p := f.product(t, 5)

	_, err := f.svc.Create(ctx, customer, CreateOrderRequest{ProductID: p.ID, Quantity: 0})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.svc.Create(ctx, customer, CreateOrderRequest{ProductID: p.ID + 99, Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	tooWide := 140.0
	_, err = f.svc.Create(ctx, customer, CreateOrderRequest{ProductID: p.ID, Quantity: 1, ImageWidth: &tooWide})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.svc.Create(ctx, mgr, CreateOrderRequest{ProductID: p.ID, Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	mine, err := f.svc.MyOrders(ctx, customer)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestReject_IsTerminalForDesigners(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	customer := f.user(t, "ana", domain.RoleRegular, domain.UserTypeCustomer)
	dsgn := f.user(t, "dee", domain.RoleRegular, domain.UserTypeDesigner)
	p := f.product(t, 3)

	o, err := f.svc.Create(ctx, customer, CreateOrderRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	reason := "  image too blurry "
	o, err = f.svc.RejectDesign(ctx, dsgn, o.ID, &reason)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDesignRejected, o.Status)
	require.NotNil(t, o.RejectionReason)
	assert.Equal(t, "image too blurry", *o.RejectionReason)

	_, err = f.svc.ApproveDesign(ctx, dsgn, o.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = f.svc.Pay(ctx, customer, o.ID, "card")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestPayAndReject_InputLimits(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	customer := f.user(t, "ana", domain.RoleRegular, domain.UserTypeCustomer)
	dsgn := f.user(t, "dee", domain.RoleRegular, domain.UserTypeDesigner)
	p := f.product(t, 3)

	o, err := f.svc.Create(ctx, customer, CreateOrderRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	long := strings.Repeat("r", 1001)
	_, err = f.svc.RejectDesign(ctx, dsgn, o.ID, &long)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, ErrInvalidReason.Error(), err.Error())

	o, err = f.svc.ApproveDesign(ctx, dsgn, o.ID)
	require.NoError(t, err)

	_, err = f.svc.Pay(ctx, customer, o.ID, strings.Repeat("x", 5000))
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, ErrInvalidPaymentMethod.Error(), err.Error())

	got, err := f.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderDesignApproved, got.Status)
	assert.Equal(t, domain.PaymentMethodPending, got.PaymentMethod)

	o, err = f.svc.Pay(ctx, customer, o.ID, "  "+strings.Repeat("x", 32)+" ")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 32), o.PaymentMethod)
}

func TestOverride(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	customer := f.user(t, "ana", domain.RoleRegular, domain.UserTypeCustomer)
	admin := f.user(t, "root", domain.RoleAdministrator)
	p := f.product(t, 3)

	o, err := f.svc.Create(ctx, customer, CreateOrderRequest{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, customer, o.ID, domain.OrderCompleted)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = f.svc.SetStatus(ctx, admin, o.ID, "teleported")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	o, err = f.svc.SetStatus(ctx, admin, o.ID, domain.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, o.Status)

	_, err = f.svc.SetStatus(ctx, admin, o.ID+50, domain.OrderPaid)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// racingStore hands every reader the same snapshot and only lets writes
// through once all readers have looked, forcing both writers past the guard.
type racingStore struct {
	OrderStore
	mu      sync.Mutex
	order   domain.Order
	readers sync.WaitGroup
}

func (s *racingStore) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	s.mu.Lock()
	o := s.order
	s.mu.Unlock()
	return &o, nil
}

func (s *racingStore) Transition(_ context.Context, _ int64, expected domain.OrderStatus, updates map[string]any) (bool, error) {
	s.readers.Done()
	s.readers.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order.Status != expected {
		return false, nil
	}
	s.order.Status = updates["status"].(domain.OrderStatus)
	return true, nil
}

type nopLedger struct{}

func (nopLedger) Record(context.Context, audit.Event) {}

func TestConcurrentReviewOneWins(t *testing.T) {
	store := &racingStore{order: domain.Order{ID: 1, CustomerID: owner.UserID, Status: domain.OrderPendingDesign}}
	store.readers.Add(2)
	svc := NewService(store, nil, nopLedger{})

	other := &access.Caller{UserID: 9, UserTypes: []domain.UserTypeID{domain.UserTypeDesigner}}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.ApproveDesign(context.Background(), designer, 1)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.RejectDesign(context.Background(), other, 1, nil)
	}()
	wg.Wait()

	var wins, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrInvalidTransition):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, lost)
}
