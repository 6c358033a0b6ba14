package domain

import "time"

// Audit entity types.
const (
	EntityDesignerRequest = "designer_request"
	EntityUserRole        = "user_role"
	EntityUserType        = "user_type"
	EntityUser            = "user"
	EntityOrder           = "order"
)

// AuditLog is an append-only ledger row. TargetLabel names what was acted upon
// so the row stays readable after the target is gone.
type AuditLog struct {
	ID          int64     `json:"log_id" gorm:"column:id;primaryKey"`
	ActorUserID int64     `json:"actor_user_id" gorm:"not null;index"`
	EntityType  string    `json:"entity_type" gorm:"type:varchar(32);not null"`
	EntityID    *int64    `json:"entity_id"`
	Action      string    `json:"action" gorm:"type:varchar(32);not null"`
	TargetLabel string    `json:"-"`
	OldValue    *string   `json:"old_value"`
	NewValue    *string   `json:"new_value"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	// Target rows are not referenced: the ledger must outlive them.
	Actor *User `json:"-" gorm:"foreignKey:ActorUserID;references:ID"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// AuditEntry is a ledger row as returned to administrators.
type AuditEntry struct {
	AuditLog
	ActorUsername  string `json:"actor_username"`
	EntityUsername string `json:"-"`
	TargetUsername string `json:"target_username,omitempty"`
}
