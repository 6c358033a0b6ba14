package admin

import "designshop/internal/domain"

var (
	ErrInvalidUserID   = domain.NewError(domain.ErrValidation, "Invalid user ID")
	ErrInvalidRole     = domain.NewError(domain.ErrValidation, "Invalid role ID")
	ErrInvalidUserType = domain.NewError(domain.ErrValidation, "Invalid user type ID")
	ErrUserNotFound    = domain.NewError(domain.ErrNotFound, "User not found")
	ErrTypeAlreadyHeld = domain.NewError(domain.ErrConflict, "User already has this type")
	ErrCannotSelfErase = domain.NewError(domain.ErrValidation, "Cannot delete your own account")
)
