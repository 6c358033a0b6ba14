package designer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"designshop/internal/domain"
	"designshop/internal/modules/access"
	"designshop/internal/modules/audit"
	"designshop/internal/pkg/metrics"
	"designshop/internal/repository"
)

// Service runs the pending -> approved | denied workflow that grants the
// designer user type to a customer.
type Service struct {
	users    UserStore
	requests RequestStore
	ledger   Ledger
	caps     CapabilityCache
	now      func() time.Time
}

func NewService(users UserStore, requests RequestStore, ledger Ledger, caps CapabilityCache) *Service {
	return &Service{
		users:    users,
		requests: requests,
		ledger:   ledger,
		caps:     caps,
		now:      time.Now,
	}
}

// Create opens a request for the caller.
func (s *Service) Create(ctx context.Context, caller *access.Caller) (req *domain.DesignerRequest, err error) {
	defer func() { metrics.DesignerRequests.WithLabelValues("create", metrics.Result(err)).Inc() }()

	if caller == nil {
		return nil, access.ErrNotAuthenticated
	}
	if !caller.IsCustomer() {
		return nil, access.ErrCustomerRequired
	}

	isDesigner, err := s.users.HasUserType(ctx, caller.UserID, domain.UserTypeDesigner)
	if err != nil {
		return nil, fmt.Errorf("check designer membership: %w", err)
	}
	if isDesigner {
		return nil, ErrAlreadyDesigner
	}

	pending, err := s.requests.HasPending(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("check pending request: %w", err)
	}
	if pending {
		return nil, ErrPendingExists
	}

	req = &domain.DesignerRequest{
		UserID:    caller.UserID,
		Status:    domain.DesignerRequestPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		// Lost a race with a concurrent submit; the partial index caught it.
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrPendingExists
		}
		return nil, fmt.Errorf("create designer request: %w", err)
	}

	s.ledger.Record(ctx, audit.Event{
		ActorID:     caller.UserID,
		EntityType:  domain.EntityDesignerRequest,
		Action:      audit.ActionCreated,
		TargetLabel: caller.Username,
		NewValue:    audit.Str(string(domain.DesignerRequestPending)),
	})
	return req, nil
}

// Mine returns the caller's most recent request, or nil if there is none.
func (s *Service) Mine(ctx context.Context, caller *access.Caller) (*domain.DesignerRequest, error) {
	if caller == nil {
		return nil, access.ErrNotAuthenticated
	}
	return s.requests.Latest(ctx, caller.UserID)
}

// Pending lists open requests oldest first.
func (s *Service) Pending(ctx context.Context, caller *access.Caller) ([]domain.PendingDesignerRequest, error) {
	if !caller.IsManagementOrAbove() {
		return nil, access.ErrManagementOnly
	}
	out, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	if out == nil {
		out = []domain.PendingDesignerRequest{}
	}
	return out, nil
}

func (s *Service) Approve(ctx context.Context, caller *access.Caller, requestID int64) (err error) {
	defer func() { metrics.DesignerRequests.WithLabelValues("approve", metrics.Result(err)).Inc() }()
	return s.resolve(ctx, caller, requestID, domain.DesignerRequestApproved)
}

func (s *Service) Deny(ctx context.Context, caller *access.Caller, requestID int64) (err error) {
	defer func() { metrics.DesignerRequests.WithLabelValues("deny", metrics.Result(err)).Inc() }()
	return s.resolve(ctx, caller, requestID, domain.DesignerRequestDenied)
}

func (s *Service) resolve(ctx context.Context, caller *access.Caller, requestID int64, to domain.DesignerRequestStatus) error {
	if !caller.IsManagementOrAbove() {
		return access.ErrManagementOnly
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if errors.Is(err, domain.ErrNotFound) {
		return ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("load designer request %d: %w", requestID, err)
	}
	if req.Status != domain.DesignerRequestPending {
		return ErrAlreadyProcessed
	}

	var label string
	if requester, err := s.users.GetByID(ctx, req.UserID); err == nil {
		label = requester.Username
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load requester %d: %w", req.UserID, err)
	}

	at := s.now().UTC()
	action := audit.ActionDenied
	if to == domain.DesignerRequestApproved {
		action = audit.ActionApproved
		err = s.requests.Approve(ctx, req, caller.UserID, at)
	} else {
		err = s.requests.Deny(ctx, req, caller.UserID, at)
	}
	if errors.Is(err, repository.ErrStale) {
		return ErrAlreadyProcessed
	}
	if err != nil {
		return fmt.Errorf("%s designer request %d: %w", action, requestID, err)
	}

	if to == domain.DesignerRequestApproved {
		s.caps.Invalidate(ctx, req.UserID)
	}

	s.ledger.Record(ctx, audit.Event{
		ActorID:     caller.UserID,
		EntityType:  domain.EntityDesignerRequest,
		EntityID:    audit.ID(req.UserID),
		Action:      action,
		TargetLabel: label,
		OldValue:    audit.Str(string(domain.DesignerRequestPending)),
		NewValue:    audit.Str(string(to)),
	})
	return nil
}
