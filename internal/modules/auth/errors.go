package auth

import "designshop/internal/domain"

var (
	ErrInvalidCredentials = domain.NewError(domain.ErrUnauthenticated, "Invalid email or password")
	ErrUserExists         = domain.NewError(domain.ErrConflict, "User already exists")
	ErrMissingFields      = domain.NewError(domain.ErrValidation, "Missing fields")
)
