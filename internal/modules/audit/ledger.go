// Package audit is the append-only ledger of privileged mutations.
//
// Writes happen after the business mutation has committed and never fail the
// caller: a lost audit row is logged and counted, the mutation stands.
package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"designshop/internal/domain"
	"designshop/internal/pkg/logger"
	"designshop/internal/pkg/metrics"
)

const DefaultLimit = 100

const (
	ActionCreated          = "created"
	ActionApproved         = "approved"
	ActionDenied           = "denied"
	ActionUpdated          = "updated"
	ActionAdded            = "added"
	ActionRemoved          = "removed"
	ActionDeleted          = "deleted"
	ActionDesignApproved   = "design_approved"
	ActionDesignRejected   = "design_rejected"
	ActionPaid             = "paid"
	ActionShipped          = "shipped"
	ActionStatusOverridden = "status_overridden"
)

// Event describes one privileged mutation.
type Event struct {
	ActorID     int64
	EntityType  string
	EntityID    *int64
	Action      string
	TargetLabel string
	OldValue    *string
	NewValue    *string
}

type Ledger struct {
	store Store
	now   func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Record appends e. Failures are swallowed after being logged.
func (l *Ledger) Record(ctx context.Context, e Event) {
	row := &domain.AuditLog{
		ActorUserID: e.ActorID,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		TargetLabel: e.TargetLabel,
		OldValue:    e.OldValue,
		NewValue:    e.NewValue,
		CreatedAt:   l.now().UTC(),
	}
	if err := l.store.Insert(ctx, row); err != nil {
		metrics.AuditWriteFailures.Inc()
		logger.FromContext(ctx).Error("audit write failed",
			"actor_user_id", e.ActorID,
			"entity_type", e.EntityType,
			"action", e.Action,
			"err", err,
		)
	}
}

// Recent returns up to limit entries, newest first, with target usernames
// decoded.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	entries, err := l.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent audit entries: %w", err)
	}
	for i := range entries {
		DecodeTarget(&entries[i])
	}
	return entries, nil
}

// DecodeTarget fills TargetUsername. Rows written before target_label existed
// packed "<label>|<old value>" into old_value for role and designer request
// events, and the bare username for user deletions.
func DecodeTarget(e *domain.AuditEntry) {
	if e.TargetLabel != "" {
		e.TargetUsername = e.TargetLabel
		return
	}

	compound := e.EntityType == domain.EntityUserRole || e.EntityType == domain.EntityDesignerRequest
	switch {
	case compound && e.OldValue != nil && strings.Contains(*e.OldValue, "|"):
		label, rest, _ := strings.Cut(*e.OldValue, "|")
		e.TargetUsername = label
		e.OldValue = &rest
	case e.EntityType == domain.EntityUser && e.Action == ActionDeleted:
		if e.OldValue != nil {
			e.TargetUsername = *e.OldValue
		}
		e.OldValue = nil
	case e.EntityType != domain.EntityOrder && e.EntityUsername != "":
		// entity_id of an order row is not a user id.
		e.TargetUsername = e.EntityUsername
	}
}

// Str is a helper for optional audit values.
func Str(s string) *string { return &s }

// ID is a helper for optional entity ids.
func ID(id int64) *int64 { return &id }

// OrderLabel names an order in the ledger.
func OrderLabel(id int64) string { return fmt.Sprintf("order #%d", id) }
