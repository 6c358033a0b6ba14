package access

import (
	"slices"

	"designshop/internal/domain"
)

// Caller is the resolved identity a request acts as. It is produced once per
// request and passed explicitly into every service call.
type Caller struct {
	UserID    int64               `json:"user_id"`
	Username  string              `json:"username"`
	Role      domain.RoleID       `json:"role_id"`
	UserTypes []domain.UserTypeID `json:"user_types"`
}

// IsManagementOrAbove is true for management and administrator.
func (c *Caller) IsManagementOrAbove() bool {
	return c != nil && (c.Role == domain.RoleManagement || c.Role == domain.RoleAdministrator)
}

func (c *Caller) IsAdministrator() bool {
	return c != nil && c.Role == domain.RoleAdministrator
}

// IsDesigner checks membership only; role does not matter.
func (c *Caller) IsDesigner() bool {
	return c.Has(domain.UserTypeDesigner)
}

func (c *Caller) IsCustomer() bool {
	return c.Has(domain.UserTypeCustomer)
}

func (c *Caller) Has(t domain.UserTypeID) bool {
	return c != nil && slices.Contains(c.UserTypes, t)
}

// UserTypeNames returns membership names in id order.
func (c *Caller) UserTypeNames() []string {
	names := make([]string, 0, len(c.UserTypes))
	for _, t := range c.UserTypes {
		names = append(names, t.Name())
	}
	return names
}
