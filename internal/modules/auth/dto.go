package auth

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserPublic is the current-user view returned by /auth/me and login.
type UserPublic struct {
	ID        int64    `json:"user_id"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	Role      string   `json:"role"`
	UserTypes []string `json:"userTypes"`
}

type LoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *UserPublic `json:"user"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}
