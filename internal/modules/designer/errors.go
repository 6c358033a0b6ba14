package designer

import "designshop/internal/domain"

var (
	ErrAlreadyDesigner  = domain.NewError(domain.ErrConflict, "You are already a designer")
	ErrPendingExists    = domain.NewError(domain.ErrConflict, "You already have a pending request")
	ErrRequestNotFound  = domain.NewError(domain.ErrNotFound, "Request not found")
	ErrAlreadyProcessed = domain.NewError(domain.ErrInvalidTransition, "Request already processed")
	ErrInvalidRequestID = domain.NewError(domain.ErrValidation, "Invalid request ID")
)
