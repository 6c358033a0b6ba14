package domain

import "time"

type OrderStatus string

const (
	OrderPendingDesign  OrderStatus = "pending_design"
	OrderDesignApproved OrderStatus = "design_approved"
	OrderDesignRejected OrderStatus = "design_rejected"
	OrderPaid           OrderStatus = "paid"
	OrderShipped        OrderStatus = "shipped"
	OrderCompleted      OrderStatus = "completed"
)

// OrderStatuses is the closed status enum, in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderPendingDesign,
	OrderDesignApproved,
	OrderDesignRejected,
	OrderPaid,
	OrderShipped,
	OrderCompleted,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// PaymentMethodPending is stored until the customer pays.
const PaymentMethodPending = "pending"

type Order struct {
	ID                 int64       `json:"order_id" gorm:"column:id;primaryKey"`
	CustomerID         int64       `json:"customer_id" gorm:"not null;index"`
	OrderDate          time.Time   `json:"order_date" gorm:"not null"`
	TotalAmount        float64     `json:"total_amount" gorm:"not null"`
	Status             OrderStatus `json:"status" gorm:"type:varchar(32);not null;index"`
	PaymentMethod      string      `json:"payment_method" gorm:"not null"`
	DesignerID         *int64      `json:"designer_id,omitempty" gorm:"index"`
	DesignerReviewedAt *time.Time  `json:"designer_reviewed_at,omitempty"`
	PaidAt             *time.Time  `json:"paid_at,omitempty"`
	ShippedAt          *time.Time  `json:"shipped_at,omitempty"`
	RejectionReason    *string     `json:"rejection_reason,omitempty"`

	Customer *User `json:"-" gorm:"foreignKey:CustomerID;references:ID"`
	Designer *User `json:"-" gorm:"foreignKey:DesignerID;references:ID"`

	// Items is loaded by the repository, not by gorm associations.
	Items []OrderItem `json:"items,omitempty" gorm:"-"`
}

func (Order) TableName() string { return "orders" }

// Rect is a normalized (0-100) placement of a customization layer.
type Rect struct {
	X      *float64 `json:"x,omitempty" validate:"omitempty,gte=0,lte=100"`
	Y      *float64 `json:"y,omitempty" validate:"omitempty,gte=0,lte=100"`
	Width  *float64 `json:"width,omitempty" validate:"omitempty,gte=0,lte=100"`
	Height *float64 `json:"height,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type Customization struct {
	CustomText  *string `json:"custom_text,omitempty" gorm:"type:text"`
	TextColor   *string `json:"text_color,omitempty"`
	TextLayer   Rect    `json:"text_layer" gorm:"embedded;embeddedPrefix:text_"`
	CustomImage *string `json:"custom_image,omitempty" gorm:"type:text"`
	ImageLayer  Rect    `json:"image_layer" gorm:"embedded;embeddedPrefix:image_"`
}

// OrderItem is immutable once written; UnitPrice is the price snapshot at creation.
type OrderItem struct {
	ID        int64   `json:"order_item_id" gorm:"column:id;primaryKey"`
	OrderID   int64   `json:"order_id" gorm:"not null;index"`
	ProductID int64   `json:"product_id" gorm:"not null;index"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`

	Customization `gorm:"embedded"`

	Order   *Order   `json:"-" gorm:"foreignKey:OrderID;references:ID"`
	Product *Product `json:"-" gorm:"foreignKey:ProductID;references:ID"`

	ProductName string `json:"product_name,omitempty" gorm:"->;-:migration"`
	PictureURL  string `json:"picture_url,omitempty" gorm:"->;-:migration"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderView is an order joined with display names for listing endpoints.
type OrderView struct {
	Order
	CustomerName string `json:"customer_name,omitempty"`
	DesignerName string `json:"designer_name,omitempty"`
}
