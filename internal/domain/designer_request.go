package domain

import "time"

type DesignerRequestStatus string

const (
	DesignerRequestPending  DesignerRequestStatus = "pending"
	DesignerRequestApproved DesignerRequestStatus = "approved"
	DesignerRequestDenied   DesignerRequestStatus = "denied"
)

type DesignerRequest struct {
	ID         int64                 `json:"request_id" gorm:"column:id;primaryKey"`
	UserID     int64                 `json:"user_id" gorm:"not null;index"`
	Status     DesignerRequestStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	ReviewedBy *int64                `json:"reviewed_by,omitempty" gorm:"index"`
	CreatedAt  time.Time             `json:"created_at"`
	ReviewedAt *time.Time            `json:"reviewed_at,omitempty"`

	User     *User `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Reviewer *User `json:"-" gorm:"foreignKey:ReviewedBy;references:ID"`
}

func (DesignerRequest) TableName() string { return "designer_requests" }

// PendingDesignerRequest is a pending request joined with the requester identity.
type PendingDesignerRequest struct {
	DesignerRequest
	Username string `json:"username"`
	Email    string `json:"email"`
}
