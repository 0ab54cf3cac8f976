// Package domain defines the core domain models for famcheck.
package domain

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success payload of POST /api/auth/login.
type LoginResponse struct {
	Token   string `json:"token"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Role    string `json:"role"`
}

// RegistrationRequest is the body of POST /api/auth/register.
type RegistrationRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegistrationResponse is the success payload of POST /api/auth/register.
type RegistrationResponse struct {
	Token   string `json:"token"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// LogoutResponse is the success payload of POST /api/auth/logout.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UserInfoResponse is the success payload of GET /api/auth/userinfo.
type UserInfoResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
