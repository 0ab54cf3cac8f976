// Package domain defines the core domain models for famcheck.
package domain

import "strings"

// RoleAdmin is the server role that grants the admin flag.
const RoleAdmin = "admin"

// Session is the locally persisted proof of authentication.
//
// The token lives in the encrypted store; username and admin flag live in
// the plain store. A session only exists when all three are present.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// SessionFromLogin builds a session from a successful login.
// The server does not echo the username, so the caller supplies it.
func SessionFromLogin(username string, resp LoginResponse) Session {
	return Session{
		Token:    resp.Token,
		Username: username,
		IsAdmin:  IsAdminRole(resp.Role),
	}
}

// SessionFromRegistration builds a session from a successful registration.
// New accounts never carry the admin role.
func SessionFromRegistration(username string, resp RegistrationResponse) Session {
	return Session{
		Token:    resp.Token,
		Username: username,
	}
}

// IsAdminRole reports whether role names the admin role.
func IsAdminRole(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), RoleAdmin)
}
