package domain

import "time"

// Catalog tables are owned by the catalog collaborator; the order flow reads
// product prices and the user deletion cascade touches the rest.

type Category struct {
	ID        int64  `json:"category_id" gorm:"column:id;primaryKey"`
	Name      string `json:"name" gorm:"not null"`
	ManagerID *int64 `json:"manager_id,omitempty" gorm:"index"`

	Manager *User `json:"-" gorm:"foreignKey:ManagerID;references:ID"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID         int64   `json:"product_id" gorm:"column:id;primaryKey"`
	Name       string  `json:"name" gorm:"not null"`
	BasePrice  float64 `json:"base_price" gorm:"not null"`
	CategoryID *int64  `json:"category_id,omitempty" gorm:"index"`
	PictureURL string  `json:"picture_url,omitempty"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID;references:ID"`
}

func (Product) TableName() string { return "products" }

type Review struct {
	ID         int64     `json:"review_id" gorm:"column:id;primaryKey"`
	ProductID  int64     `json:"product_id" gorm:"not null;index"`
	CustomerID int64     `json:"customer_id" gorm:"not null;index"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	Product  *Product `json:"-" gorm:"foreignKey:ProductID;references:ID"`
	Customer *User    `json:"-" gorm:"foreignKey:CustomerID;references:ID"`
}

func (Review) TableName() string { return "reviews" }

type DesignTemplate struct {
	ID         int64     `json:"template_id" gorm:"column:id;primaryKey"`
	DesignerID int64     `json:"designer_id" gorm:"not null;index"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`

	Designer *User `json:"-" gorm:"foreignKey:DesignerID;references:ID"`
}

func (DesignTemplate) TableName() string { return "design_templates" }

// Models lists every table the service migrates, parents first.
func Models() []any {
	return []any{
		&Role{},
		&UserType{},
		&User{},
		&UserUserType{},
		&Category{},
		&Product{},
		&Review{},
		&DesignTemplate{},
		&Order{},
		&OrderItem{},
		&DesignerRequest{},
		&AuditLog{},
	}
}
