package order

import "designshop/internal/domain"

var (
	ErrOrderNotFound        = domain.NewError(domain.ErrNotFound, "Order not found")
	ErrProductNotFound      = domain.NewError(domain.ErrNotFound, "Product not found")
	ErrInvalidOrderData     = domain.NewError(domain.ErrValidation, "Invalid order data")
	ErrInvalidOrderID       = domain.NewError(domain.ErrValidation, "Invalid order ID")
	ErrInvalidStatus        = domain.NewError(domain.ErrValidation, "Invalid status value")
	ErrInvalidPaymentMethod = domain.NewError(domain.ErrValidation, "Payment method must be at most 32 characters")
	ErrInvalidReason        = domain.NewError(domain.ErrValidation, "Rejection reason must be at most 1000 characters")
	ErrNotPendingDesign     = domain.NewError(domain.ErrInvalidTransition, "Order is not pending design review")
	ErrNotReadyForPayment   = domain.NewError(domain.ErrValidation, "Order is not ready for payment")
	ErrNotReadyForShipment  = domain.NewError(domain.ErrValidation, "Order is not ready for shipment")
	ErrNotYourOrder         = domain.NewError(domain.ErrForbidden, "Not your order")
	ErrDesignerRequired     = domain.NewError(domain.ErrForbidden, "Designer access required")
	ErrManagementRequired   = domain.NewError(domain.ErrForbidden, "Management access required")
	ErrCustomerRequired     = domain.NewError(domain.ErrForbidden, "Customer access required")
	ErrOrderAccessDenied    = domain.NewError(domain.ErrForbidden, "Access denied")
)
