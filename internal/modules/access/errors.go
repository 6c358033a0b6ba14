package access

import "designshop/internal/domain"

var (
	ErrNotAuthenticated  = domain.NewError(domain.ErrUnauthenticated, "Not authenticated")
	ErrDesignerRequired  = domain.NewError(domain.ErrForbidden, "Designer access required")
	ErrCustomerRequired  = domain.NewError(domain.ErrForbidden, "Customer access required")
	ErrManagementOnly    = domain.NewError(domain.ErrForbidden, "Management access required")
	ErrAdministratorOnly = domain.NewError(domain.ErrForbidden, "Admin access required")
)
